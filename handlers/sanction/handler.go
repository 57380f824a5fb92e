// Package sanction serves /sanktion, /sanktionen and /sanktion-aufheben.
package sanction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
	"werkstatt-bot/utils/apperr"
	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/database"
)

const listLimit = 15

const expiryLayout = "02.01.2006 15:04"

// Store is the part of the record store sanctions need.
type Store interface {
	CreateSanction(ctx context.Context, sn *model.Sanction) (int64, error)
	GetSanction(ctx context.Context, id int64) (*model.Sanction, error)
	ListSanctions(ctx context.Context, userID string, limit int) ([]model.Sanction, error)
	DeactivateSanction(ctx context.Context, id int64) error
}

type Handler struct {
	Store    Store
	Config   func() *model.Config
	Validate *validator.Validate
	Clock    clock.Clock
	Logger   *zap.Logger
}

// IssueRequest is a validated /sanktion invocation.
type IssueRequest struct {
	UserID      string             `validate:"required"`
	DisplayName string             `validate:"required"`
	Kind        model.SanctionKind `validate:"required,sanction_kind"`
	Reason      string             `validate:"required,max=1000"`
	Fine        int64              `validate:"gte=0"`
	IssuerID    string             `validate:"required"`
	IssuerName  string
}

var errNoPermission = apperr.Forbidden("Du hast keine Berechtigung fuer diesen Befehl.")

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock.Now()
}

func (h *Handler) location() *time.Location {
	if cfg := h.Config(); cfg != nil && cfg.Location != nil {
		return cfg.Location
	}
	return time.UTC
}

// validator falls back to a private validator when none is shared.
func (h *Handler) validator() *validator.Validate {
	if h.Validate == nil {
		return model.NewValidator()
	}
	return h.Validate
}

func (h *Handler) isModerator(member *discordgo.Member) bool {
	cfg := h.Config()
	return utils.HasPermission(member, utils.ModeratorPermission, cfg.AdminRoleIDs, cfg.ModeratorRoleIDs)
}

// Issue validates and stores a sanction.
func (h *Handler) Issue(ctx context.Context, req IssueRequest) (*model.Sanction, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := h.validator().Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Kind":
				return nil, apperr.Validation("Unbekannter Sanktionstyp.")
			case "Fine":
				return nil, apperr.Validation("Die Geldstrafe darf nicht negativ sein.")
			case "Reason":
				return nil, apperr.Validation("Bitte gib einen Grund (hoechstens 1000 Zeichen) an.")
			}
		}
		return nil, apperr.Validation("Ungueltige Angaben fuer die Sanktion.")
	}

	sn := &model.Sanction{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Kind:        req.Kind,
		Reason:      req.Reason,
		Fine:        req.Fine,
		IssuerID:    req.IssuerID,
		IssuerName:  req.IssuerName,
	}
	if _, err := h.Store.CreateSanction(ctx, sn); err != nil {
		return nil, apperr.Storage(err, "Fehler beim Erstellen der Sanktion.")
	}
	return sn, nil
}

// IssuedEmbed is the announcement posted into the sanction channel.
func IssuedEmbed(sn *model.Sanction, avatarURL string, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Sanktion ausgestellt",
		Color: utils.ColorError,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Benutzer", Value: fmt.Sprintf("<@%s>", sn.UserID), Inline: true},
			{Name: "Sanktionstyp", Value: string(sn.Kind), Inline: true},
			{Name: "Geldstrafe", Value: utils.FormatDollars(sn.Fine), Inline: true},
			{Name: "Grund", Value: utils.Truncate(sn.Reason, 1024)},
			{Name: "Ausgestellt von", Value: fmt.Sprintf("<@%s>", sn.IssuerID), Inline: true},
			{Name: "Sanktions-ID", Value: fmt.Sprintf("#%d", sn.ID), Inline: true},
		},
		Timestamp: sn.CreatedAt.Format(time.RFC3339),
	}
	if avatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatarURL}
	}
	if sn.ExpiresAt != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Suspendierung bis",
			Value:  sn.ExpiresAt.In(loc).Format(expiryLayout),
			Inline: true,
		})
	}
	return embed
}

// HandleIssueCommand serves /sanktion.
func (h *Handler) HandleIssueCommand(s model.Session, i *discordgo.InteractionCreate) {
	if !h.isModerator(i.Member) {
		utils.RespondError(s, i, errNoPermission, false, h.logger())
		return
	}

	opts := utils.OptionMap(i)
	target, targetMember := utils.ResolvedUser(i, opts["benutzer"])
	if target == nil {
		utils.SendErrorResponse(s, i, "Benutzer nicht gefunden.")
		return
	}
	req := IssueRequest{
		UserID:      target.ID,
		DisplayName: utils.DisplayName(targetMember, target),
		IssuerID:    utils.InteractionUser(i).ID,
		IssuerName:  utils.InvokerName(i),
	}
	if opt, ok := opts["typ"]; ok {
		req.Kind = model.SanctionKind(opt.StringValue())
	}
	if opt, ok := opts["grund"]; ok {
		req.Reason = opt.StringValue()
	}
	if opt, ok := opts["geldstrafe"]; ok {
		req.Fine = opt.IntValue()
	}
	if req.DisplayName == "" {
		req.DisplayName = target.ID
	}

	sn, err := h.Issue(context.Background(), req)
	if err != nil {
		utils.RespondError(s, i, err, false, h.logger())
		return
	}
	if err := utils.SendEphemeral(s, i, "Sanktion wurde ausgestellt und im Sanktionskanal angekuendigt."); err != nil {
		h.logger().Warn("error confirming sanction", zap.Error(err))
	}

	channelID := h.Config().Channels.Sanction
	if channelID == "" {
		return
	}
	embed := IssuedEmbed(sn, target.AvatarURL(""), h.location())
	if _, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		h.logger().Warn("error announcing sanction", zap.Int64("sanction_id", sn.ID), zap.Error(err))
	}
}

// ListEmbed renders sanctions for /sanktionen. An empty title lists the
// active sanctions of everybody.
func ListEmbed(title string, sanctions []model.Sanction, now time.Time, loc *time.Location) *discordgo.MessageEmbed {
	if title == "" {
		title = "Aktive Sanktionen"
	}
	embed := &discordgo.MessageEmbed{
		Title:     title,
		Color:     utils.ColorWarning,
		Timestamp: now.Format(time.RFC3339),
	}
	for _, sn := range sanctions {
		status := "Aktiv"
		if !sn.Active {
			status = "Aufgehoben"
		}
		expiry := "-"
		if sn.ExpiresAt != nil {
			expiry = sn.ExpiresAt.In(loc).Format(expiryLayout)
		}
		value := fmt.Sprintf("**Benutzer:** %s\n**Grund:** %s\n**Geldstrafe:** %s\n**Von:** %s\n**Ablauf:** %s",
			sn.DisplayName, sn.Reason, utils.FormatDollars(sn.Fine), sn.IssuerName, expiry)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d - %s [%s]", sn.ID, sn.Kind, status),
			Value: utils.Truncate(value, 1024),
		})
	}
	return embed
}

// HandleListCommand serves /sanktionen.
func (h *Handler) HandleListCommand(s model.Session, i *discordgo.InteractionCreate) {
	var userID, title string
	if user, member := utils.ResolvedUser(i, utils.OptionMap(i)["benutzer"]); user != nil {
		userID = user.ID
		title = "Sanktionen von " + utils.DisplayName(member, user)
	}
	sanctions, err := h.Store.ListSanctions(context.Background(), userID, listLimit)
	if err != nil {
		h.logger().Error("error listing sanctions", zap.Error(err))
		utils.SendErrorResponse(s, i, "Fehler beim Abrufen der Sanktionen.")
		return
	}
	if len(sanctions) == 0 {
		utils.SendErrorResponse(s, i, "Keine Sanktionen gefunden.")
		return
	}
	if err := utils.SendEmbed(s, i, ListEmbed(title, sanctions, h.now(), h.location()), false); err != nil {
		h.logger().Warn("error sending sanction list", zap.Error(err))
	}
}

// Lift deactivates sanction id and returns it as it was before.
func (h *Handler) Lift(ctx context.Context, id int64) (*model.Sanction, error) {
	sn, err := h.Store.GetSanction(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("Sanktion nicht gefunden.")
	}
	if err != nil {
		return nil, apperr.Storage(err, "Fehler beim Aufheben der Sanktion.")
	}
	if err := h.Store.DeactivateSanction(ctx, id); err != nil {
		return nil, apperr.Storage(err, "Fehler beim Aufheben der Sanktion.")
	}
	return sn, nil
}

// HandleLiftCommand serves /sanktion-aufheben.
func (h *Handler) HandleLiftCommand(s model.Session, i *discordgo.InteractionCreate) {
	if !h.isModerator(i.Member) {
		utils.RespondError(s, i, errNoPermission, false, h.logger())
		return
	}
	opt, ok := utils.OptionMap(i)["id"]
	if !ok {
		utils.SendErrorResponse(s, i, "Sanktion nicht gefunden.")
		return
	}
	sn, err := h.Lift(context.Background(), opt.IntValue())
	if err != nil {
		utils.RespondError(s, i, err, false, h.logger())
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Sanktion aufgehoben",
		Color: utils.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Sanktions-ID", Value: fmt.Sprintf("#%d", sn.ID), Inline: true},
			{Name: "Benutzer", Value: sn.DisplayName, Inline: true},
			{Name: "Typ", Value: string(sn.Kind), Inline: true},
			{Name: "Aufgehoben von", Value: utils.InvokerName(i)},
		},
		Timestamp: h.now().Format(time.RFC3339),
	}
	if err := utils.SendEmbed(s, i, embed, false); err != nil {
		h.logger().Warn("error confirming sanction lift", zap.Error(err))
	}
}
