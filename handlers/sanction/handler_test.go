package sanction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkstatt-bot/model"
	"werkstatt-bot/utils/apperr"
	"werkstatt-bot/utils/database"
	"werkstatt-bot/utils/testutil"
)

const sanctionChannel = "c-sanktion"

func setup(t *testing.T) (*Handler, *database.Store, *testutil.FakeSession) {
	t.Helper()
	store, clk := testutil.NewStore(t, testutil.FixedTime)
	cfg := &model.Config{
		Location:         time.UTC,
		Channels:         model.ChannelConfig{Sanction: sanctionChannel},
		ModeratorRoleIDs: []string{"role-mod"},
	}
	h := &Handler{
		Store:  store,
		Config: func() *model.Config { return cfg },
		Clock:  clk,
	}
	return h, store, testutil.NewFakeSession()
}

func moderator(id string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: id, Username: "mod-" + id}, Roles: []string{"role-mod"}}
}

func issueCommand(m *discordgo.Member, target, kind, reason string, fine int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: m,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "sanktion",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "benutzer", Type: discordgo.ApplicationCommandOptionUser, Value: target},
				{Name: "typ", Type: discordgo.ApplicationCommandOptionString, Value: kind},
				{Name: "grund", Type: discordgo.ApplicationCommandOptionString, Value: reason},
				{Name: "geldstrafe", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(fine)},
			},
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{target: {ID: target, Username: "erika"}},
			},
		},
	}}
}

func TestIssueValidation(t *testing.T) {
	h, _, _ := setup(t)
	ctx := context.Background()
	base := IssueRequest{UserID: "u2", DisplayName: "erika", Kind: model.SanctionWarn1, Reason: "Zu spaet", IssuerID: "u1"}

	bad := base
	bad.Kind = "Verwarnung"
	_, err := h.Issue(ctx, bad)
	assert.Equal(t, "Unbekannter Sanktionstyp.", apperr.UserMessage(err))

	bad = base
	bad.Fine = -5
	_, err = h.Issue(ctx, bad)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	bad = base
	bad.Reason = "   "
	_, err = h.Issue(ctx, bad)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	sn, err := h.Issue(ctx, base)
	require.NoError(t, err)
	assert.Nil(t, sn.ExpiresAt)
	assert.True(t, sn.Active)
}

func TestIssueCommandAnnounces(t *testing.T) {
	h, store, session := setup(t)

	h.HandleIssueCommand(session, issueCommand(moderator("u1"), "u2", string(model.SanctionSuspension2Days), "Regelverstoss", 15000))

	assert.Equal(t, "Sanktion wurde ausgestellt und im Sanktionskanal angekuendigt.", session.LastContent())
	sent := session.LiveMessages(sanctionChannel)
	require.Len(t, sent, 1)
	embed := sent[0].Data.Embeds[0]
	assert.Equal(t, "Sanktion ausgestellt", embed.Title)
	assert.Equal(t, "$15.000", embed.Fields[2].Value)
	last := embed.Fields[len(embed.Fields)-1]
	assert.Equal(t, "Suspendierung bis", last.Name)
	assert.Equal(t, "24.12.2024 09:30", last.Value)

	sn, err := store.GetSanction(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "erika", sn.DisplayName)
	assert.Equal(t, "mod-u1", sn.IssuerName)
}

func TestIssueCommandRequiresModerator(t *testing.T) {
	h, store, session := setup(t)
	plain := &discordgo.Member{User: &discordgo.User{ID: "u3"}}

	h.HandleIssueCommand(session, issueCommand(plain, "u2", string(model.SanctionWarn1), "x", 0))

	assert.Equal(t, "Du hast keine Berechtigung fuer diesen Befehl.", session.LastContent())
	_, err := store.GetSanction(context.Background(), 1)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Empty(t, session.Messages())
}

func TestListAndLift(t *testing.T) {
	h, _, session := setup(t)
	ctx := context.Background()

	list := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: moderator("u1"),
		Data:   discordgo.ApplicationCommandInteractionData{Name: "sanktionen"},
	}}
	h.HandleListCommand(session, list)
	assert.Equal(t, "Keine Sanktionen gefunden.", session.LastContent())

	first, err := h.Issue(ctx, IssueRequest{UserID: "u2", DisplayName: "erika", Kind: model.SanctionWarn1, Reason: "a", IssuerID: "u1", IssuerName: "mod"})
	require.NoError(t, err)
	_, err = h.Issue(ctx, IssueRequest{UserID: "u2", DisplayName: "erika", Kind: model.SanctionWarn2, Reason: "b", Fine: 500, IssuerID: "u1", IssuerName: "mod"})
	require.NoError(t, err)

	lift := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: moderator("u1"),
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    "sanktion-aufheben",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "id", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(first.ID)}},
		},
	}}
	h.HandleLiftCommand(session, lift)
	resp := session.LastResponse()
	require.Len(t, resp.Data.Embeds, 1)
	assert.Equal(t, "Sanktion aufgehoben", resp.Data.Embeds[0].Title)

	h.HandleListCommand(session, list)
	resp = session.LastResponse()
	require.Len(t, resp.Data.Embeds, 1)
	embed := resp.Data.Embeds[0]
	assert.Equal(t, "Aktive Sanktionen", embed.Title)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "#2 - Warn 2 [Aktiv]", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "**Geldstrafe:** $500")
	assert.Contains(t, embed.Fields[0].Value, "**Ablauf:** -")
	assert.Zero(t, resp.Data.Flags, "sanction lists are public")

	byUser := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: moderator("u1"),
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    "sanktionen",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "benutzer", Type: discordgo.ApplicationCommandOptionUser, Value: "u2"}},
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{"u2": {ID: "u2", Username: "erika"}},
			},
		},
	}}
	h.HandleListCommand(session, byUser)
	embed = session.LastResponse().Data.Embeds[0]
	assert.Equal(t, "Sanktionen von erika", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "#1 - Warn 1 [Aufgehoben]", embed.Fields[1].Name)

	_, err = h.Lift(ctx, 99)
	assert.Equal(t, "Sanktion nicht gefunden.", apperr.UserMessage(err))
}

func TestIssueSharesValidatorConcurrently(t *testing.T) {
	h, _, _ := setup(t)
	shared := model.NewValidator()
	h.Validate = shared
	doc := &model.TuningDocumentation{Topic: model.TopicStance, CustomerName: "Max", Plate: "LS-AB12"}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := h.Issue(context.Background(), IssueRequest{})
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, shared.Struct(doc))
		}()
	}
	wg.Wait()
}
