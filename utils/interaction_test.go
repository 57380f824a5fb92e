package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandInteraction(data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Data:   data,
		Member: &discordgo.Member{Nick: "Werkstattchef", User: &discordgo.User{ID: "u1", Username: "chef"}},
	}}
}

func TestOptionHelpers(t *testing.T) {
	i := commandInteraction(discordgo.ApplicationCommandInteractionData{
		Name: "tuningchip",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "kunde", Type: discordgo.ApplicationCommandOptionString, Value: "Lisa"},
			{Name: "benutzer", Type: discordgo.ApplicationCommandOptionUser, Value: "u2"},
			{Name: "bild", Type: discordgo.ApplicationCommandOptionAttachment, Value: "a1"},
		},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users:       map[string]*discordgo.User{"u2": {ID: "u2", Username: "max", GlobalName: "Max"}},
			Members:     map[string]*discordgo.Member{"u2": {Nick: "Maxi"}},
			Attachments: map[string]*discordgo.MessageAttachment{"a1": {ID: "a1", URL: "https://cdn/x.png"}},
		},
	})

	opts := OptionMap(i)
	require.Len(t, opts, 3)
	assert.Equal(t, "Lisa", opts["kunde"].StringValue())

	user, member := ResolvedUser(i, opts["benutzer"])
	require.NotNil(t, user)
	assert.Equal(t, "Maxi", DisplayName(member, user))

	att := ResolvedAttachment(i, opts["bild"])
	require.NotNil(t, att)
	assert.Equal(t, "https://cdn/x.png", att.URL)

	assert.Nil(t, ResolvedAttachment(i, nil))
	assert.Equal(t, "u1", InteractionUser(i).ID)
	assert.Equal(t, "Werkstattchef", InvokerName(i))
}

func TestDisplayNameFallbacks(t *testing.T) {
	assert.Equal(t, "Global", DisplayName(nil, &discordgo.User{Username: "user", GlobalName: "Global"}))
	assert.Equal(t, "user", DisplayName(&discordgo.Member{}, &discordgo.User{Username: "user"}))
	assert.Equal(t, "", DisplayName(nil, nil))
}

func TestModalValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "abmeldung_modal",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: "grund", Value: "Urlaub"}}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: "von", Value: "20.12.2024"}}},
		},
	}
	values := ModalValues(data)
	assert.Equal(t, map[string]string{"grund": "Urlaub", "von": "20.12.2024"}, values)
}
