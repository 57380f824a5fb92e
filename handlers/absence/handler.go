package absence

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

const (
	fieldReason = "grund"
	fieldFrom   = "von"
	fieldTo     = "bis"
)

func absenceModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: model.AbsenceModalID,
		Title:    "Abmeldung erstellen",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldReason,
					Label:       "Grund der Abmeldung",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "z.B. Urlaub, Krankheit, Private Gruende...",
					Required:    true,
					MaxLength:   500,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldFrom,
					Label:       "Von (Datum)",
					Style:       discordgo.TextInputShort,
					Placeholder: "TT.MM.JJJJ (z.B. 25.12.2024)",
					Required:    true,
					MaxLength:   10,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldTo,
					Label:       "Bis (Datum)",
					Style:       discordgo.TextInputShort,
					Placeholder: "TT.MM.JJJJ (z.B. 31.12.2024)",
					Required:    true,
					MaxLength:   10,
				},
			}},
		},
	}
}

// HandleOpenModal answers the panel's "abmelden" button with the form.
func (h *Handler) HandleOpenModal(s model.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: absenceModal(),
	})
	if err != nil {
		h.logger().Warn("error opening absence modal", zap.Error(err))
	}
}

func confirmation(rec *model.AbsenceRecord) string {
	return fmt.Sprintf("Deine Abmeldung vom %s bis %s wurde erfasst.", rec.StartDate.German(), rec.EndDate.German())
}

// HandleModalSubmit stores the absence from the form and moves the panel of
// the submitting channel below it.
func (h *Handler) HandleModalSubmit(s model.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		h.logger().Warn("error deferring absence modal", zap.Error(err))
		return
	}

	values := utils.ModalValues(i.ModalSubmitData())
	user := utils.InteractionUser(i)
	ctx := context.Background()
	rec, err := h.Submit(ctx, user.ID, utils.InvokerName(i), values[fieldReason], values[fieldFrom], values[fieldTo])
	if err != nil {
		utils.RespondError(s, i, err, true, h.logger())
		return
	}
	if err := utils.SendFollowUp(s, i.Interaction, confirmation(rec)); err != nil {
		h.logger().Warn("error confirming absence", zap.Error(err))
	}
	h.republish(ctx, i.ChannelID)
}

// HandleEnd answers the panel's "beenden" button.
func (h *Handler) HandleEnd(s model.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	ended, err := h.Terminate(ctx, utils.InteractionUser(i).ID)
	if err != nil {
		utils.RespondError(s, i, err, false, h.logger())
		return
	}
	if !ended {
		utils.SendErrorResponse(s, i, "Du hast keine aktive Abmeldung.")
		return
	}
	if err := utils.SendEphemeral(s, i, "Deine Abmeldung wurde beendet. Willkommen zurueck!"); err != nil {
		h.logger().Warn("error confirming absence end", zap.Error(err))
	}
	h.republish(ctx, i.ChannelID)
}

// HandleCreateCommand serves /abmelden.
func (h *Handler) HandleCreateCommand(s model.Session, i *discordgo.InteractionCreate) {
	opts := utils.OptionMap(i)
	ctx := context.Background()
	rec, err := h.Submit(ctx, utils.InteractionUser(i).ID, utils.InvokerName(i),
		stringOption(opts, fieldReason), stringOption(opts, fieldFrom), stringOption(opts, fieldTo))
	if err != nil {
		utils.RespondError(s, i, err, false, h.logger())
		return
	}
	if err := utils.SendEphemeral(s, i, confirmation(rec)); err != nil {
		h.logger().Warn("error confirming absence", zap.Error(err))
	}
	h.republish(ctx, "")
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// ListEmbed renders up to ten active absences.
func ListEmbed(records []model.AbsenceRecord, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "Aktive Abmeldungen",
		Color:     utils.ColorInfo,
		Timestamp: now.Format(time.RFC3339),
	}
	for _, rec := range records {
		value := fmt.Sprintf("**Von:** %s | **Bis:** %s\n**Grund:** %s",
			rec.StartDate.German(), rec.EndDate.German(), rec.Reason)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d - %s", rec.ID, rec.DisplayName),
			Value: utils.Truncate(value, 1024),
		})
	}
	return embed
}

// HandleListCommand serves /abmeldungen.
func (h *Handler) HandleListCommand(s model.Session, i *discordgo.InteractionCreate) {
	var userID string
	if user, _ := utils.ResolvedUser(i, utils.OptionMap(i)["benutzer"]); user != nil {
		userID = user.ID
	}
	records, err := h.Store.ListActiveAbsences(context.Background(), userID, listLimit)
	if err != nil {
		h.logger().Error("error listing absences", zap.Error(err))
		utils.SendErrorResponse(s, i, "Fehler beim Abrufen der Abmeldungen.")
		return
	}
	if len(records) == 0 {
		utils.SendErrorResponse(s, i, "Keine aktiven Abmeldungen gefunden.")
		return
	}
	if err := utils.SendEmbed(s, i, ListEmbed(records, h.now()), true); err != nil {
		h.logger().Warn("error sending absence list", zap.Error(err))
	}
}

// HandleDeleteCommand serves /abmeldung-loeschen.
func (h *Handler) HandleDeleteCommand(s model.Session, i *discordgo.InteractionCreate) {
	opt, ok := utils.OptionMap(i)["id"]
	if !ok {
		utils.SendErrorResponse(s, i, "Abmeldung nicht gefunden.")
		return
	}
	id := opt.IntValue()
	cfg := h.Config()
	isAdmin := utils.HasPermission(i.Member, utils.AdminPermission, cfg.AdminRoleIDs, cfg.ModeratorRoleIDs)

	ctx := context.Background()
	if err := h.Delete(ctx, id, utils.InteractionUser(i).ID, isAdmin); err != nil {
		utils.RespondError(s, i, err, false, h.logger())
		return
	}
	if err := utils.SendEphemeral(s, i, fmt.Sprintf("Abmeldung #%d wurde geloescht.", id)); err != nil {
		h.logger().Warn("error confirming absence deletion", zap.Error(err))
	}
	h.republish(ctx, "")
}
