package tuning

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkstatt-bot/flow"
	"werkstatt-bot/model"
	"werkstatt-bot/panel"
	"werkstatt-bot/tuningdoc"
	"werkstatt-bot/utils/database"
	"werkstatt-bot/utils/testutil"
)

const chipChannel = "c-chip"

func setup(t *testing.T) (*Handler, *database.Store, *testutil.FakeSession) {
	t.Helper()
	store, clk := testutil.NewStore(t, testutil.FixedTime)
	session := testutil.NewFakeSession()
	cfg := &model.Config{
		Location: time.UTC,
		Channels: model.ChannelConfig{TuningChip: chipChannel},
	}
	panels := panel.NewSynchronizer(store, session, panel.Options{Clock: clk, Location: time.UTC})
	docs := tuningdoc.NewService(store, session, panels, tuningdoc.Options{Window: time.Minute})
	flows := flow.NewController(docs, flow.Options{Clock: clk, Window: time.Minute})
	t.Cleanup(flows.Close)
	h := &Handler{
		Docs:   docs,
		Flows:  flows,
		Config: func() *model.Config { return cfg },
	}
	return h, store, session
}

func member(id string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: id, Username: "user-" + id}}
}

func button(userID, channelID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i-button",
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: channelID,
		Member:    member(userID),
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func modalSubmit(userID, channelID string, topic model.Topic, values map[string]string) *discordgo.InteractionCreate {
	var rows []discordgo.MessageComponent
	for id, v := range values {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: v},
		}})
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "i-modal",
		Type:      discordgo.InteractionModalSubmit,
		ChannelID: channelID,
		Member:    member(userID),
		Data:      discordgo.ModalSubmitInteractionData{CustomID: model.DocumentationModalID(topic), Components: rows},
	}}
}

func str(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func integer(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

// choiceToken reads the flow token from the attach button of the prompt edit.
func choiceToken(t *testing.T, session *testutil.FakeSession) string {
	t.Helper()
	var edit *discordgo.WebhookEdit
	require.Eventually(t, func() bool {
		for _, e := range session.Edits() {
			if e.Components != nil && len(*e.Components) > 0 {
				edit = e
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	row := (*edit.Components)[0].(discordgo.ActionsRow)
	token, attach, ok := flow.ParseChoiceButtonID(row.Components[0].(discordgo.Button).CustomID)
	require.True(t, ok)
	require.True(t, attach)
	return token
}

func TestModalPerTopic(t *testing.T) {
	ids := func(data *discordgo.InteractionResponseData) []string {
		var out []string
		for _, c := range data.Components {
			out = append(out, c.(discordgo.ActionsRow).Components[0].(discordgo.TextInput).CustomID)
		}
		return out
	}
	assert.Equal(t, []string{fieldCustomer, fieldPlate, fieldDescription}, ids(Modal(model.TopicTuningChip)))
	assert.Equal(t, []string{fieldCustomer, fieldPlate}, ids(Modal(model.TopicStance)))
	assert.Equal(t, []string{fieldCustomer, fieldPlate, fieldColor}, ids(Modal(model.TopicXenon)))
	assert.Equal(t, "doku_modal:xenon", Modal(model.TopicXenon).CustomID)
}

func TestOpenModal(t *testing.T) {
	h, _, session := setup(t)

	h.HandleOpenModal(session, button("u1", chipChannel, model.DocumentationButtonID(model.TopicStance)))
	resp := session.LastResponse()
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, "Stance-Tuning dokumentieren", resp.Data.Title)

	h.HandleOpenModal(session, button("u1", chipChannel, "doku_button:abmeldung"))
	assert.Equal(t, "Unbekannte Dokumentationsart.", session.LastContent())
}

func TestModalSubmitSkipImage(t *testing.T) {
	h, store, session := setup(t)

	h.HandleModalSubmit(session, modalSubmit("u1", chipChannel, model.TopicTuningChip, map[string]string{
		fieldCustomer:    "Max",
		fieldPlate:       "ls-ab12",
		fieldDescription: "Stage 1",
	}))
	token := choiceToken(t, session)

	doc, err := store.GetTuningDocumentation(context.Background(), model.TopicTuningChip, 1)
	require.NoError(t, err)
	assert.Equal(t, "LS-AB12", doc.Plate)
	assert.False(t, doc.HasImage())

	h.HandleChoice(session, button("u2", chipChannel, flow.ChoiceButtonID(token, false)))
	assert.Equal(t, "Diese Auswahl ist abgelaufen oder gehoert nicht zu deiner Dokumentation.", session.LastResponse().Data.Content)

	h.HandleChoice(session, button("u1", chipChannel, flow.ChoiceButtonID(token, false)))
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, session.LastResponse().Type)

	require.Eventually(t, func() bool { return len(session.LiveMessages(chipChannel)) == 2 }, time.Second, 5*time.Millisecond)
	live := session.LiveMessages(chipChannel)
	assert.Empty(t, live[0].Data.Components, "documentation post")
	assert.NotEmpty(t, live[1].Data.Components, "panel below it")
}

func TestModalSubmitValidationError(t *testing.T) {
	h, _, session := setup(t)

	h.HandleModalSubmit(session, modalSubmit("u1", chipChannel, model.TopicXenon, map[string]string{
		fieldCustomer: "Max",
		fieldPlate:    "VIEL-ZU-LANG",
		fieldColor:    "blau",
	}))

	assert.Contains(t, session.LastContent(), "Kennzeichen")
	assert.Empty(t, session.Messages())
}

func TestDocumentCommand(t *testing.T) {
	h, store, session := setup(t)
	cmd := func(withImage bool) *discordgo.InteractionCreate {
		opts := []*discordgo.ApplicationCommandInteractionDataOption{
			str(fieldCustomer, "Erika"), str(fieldPlate, "b-xy1"), str(fieldDescription, "Stage 3"),
		}
		resolved := &discordgo.ApplicationCommandInteractionDataResolved{}
		if withImage {
			opts = append(opts, &discordgo.ApplicationCommandInteractionDataOption{
				Name: fieldImage, Type: discordgo.ApplicationCommandOptionAttachment, Value: "att1",
			})
			resolved.Attachments = map[string]*discordgo.MessageAttachment{
				"att1": {ID: "att1", URL: "https://cdn.example/chip.png"},
			}
		}
		return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "c-elsewhere",
			Member:    member("u1"),
			Data:      discordgo.ApplicationCommandInteractionData{Name: "tuningchip", Options: opts, Resolved: resolved},
		}}
	}

	h.HandleDocumentCommand(session, cmd(false), model.TopicTuningChip)
	assert.Equal(t, "Bitte haenge ein Bild an.", session.LastContent())

	h.HandleDocumentCommand(session, cmd(true), model.TopicTuningChip)
	assert.Equal(t, "Dokumentation wurde erfasst!", session.LastContent())

	live := session.LiveMessages(chipChannel)
	require.Len(t, live, 2)
	assert.Equal(t, "https://cdn.example/chip.png", live[0].Data.Embeds[0].Image.URL)
	assert.Empty(t, session.LiveMessages("c-elsewhere"))

	doc, err := store.GetTuningDocumentation(context.Background(), model.TopicTuningChip, 1)
	require.NoError(t, err)
	assert.Equal(t, "B-XY1", doc.Plate)
	assert.True(t, doc.HasImage())
}

func TestEigentuningCommand(t *testing.T) {
	h, _, session := setup(t)
	cmd := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "c-eigen",
		Member:    member("u1"),
		Data: discordgo.ApplicationCommandInteractionData{Name: "eigentuning", Options: []*discordgo.ApplicationCommandInteractionDataOption{
			str("rechnungssteller", "Chef"), integer("einkaufspreis", 1500), integer("rechnungshoehe", 4000),
		}},
	}}

	h.HandleEigentuningCommand(session, cmd)

	assert.Equal(t, "Eigentuning wurde dokumentiert!", session.LastContent())
	live := session.LiveMessages("c-eigen")
	require.Len(t, live, 1)
	assert.Equal(t, "user-u1", live[0].Data.Embeds[0].Fields[0].Value)
}
