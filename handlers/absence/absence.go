// Package absence handles "Abmeldungen": the panel buttons, the modal and
// the slash commands around absence records.
package absence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils/apperr"
	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/database"
)

const listLimit = 10

// Store is the part of the record store absences need.
type Store interface {
	CreateAbsence(ctx context.Context, a *model.AbsenceRecord) (int64, error)
	GetAbsence(ctx context.Context, id int64) (*model.AbsenceRecord, error)
	ListActiveAbsences(ctx context.Context, userID string, limit int) ([]model.AbsenceRecord, error)
	LatestActiveAbsence(ctx context.Context, userID string) (*model.AbsenceRecord, error)
	DeactivateAbsence(ctx context.Context, id int64) error
}

// PanelPublisher republishes a panel. Failures are handled inside.
type PanelPublisher interface {
	PublishPanel(ctx context.Context, channelID string, topic model.Topic) *discordgo.Message
}

// Handler serves every absence interaction.
type Handler struct {
	Store  Store
	Panels PanelPublisher
	Config func() *model.Config
	Clock  clock.Clock
	Logger *zap.Logger
}

var (
	errInvalidDate = apperr.Validation("Ungueltiges Datumsformat. Bitte verwende TT.MM.JJJJ")
	errEndBefore   = apperr.Validation("Das Enddatum muss nach dem Startdatum liegen.")
	errNoReason    = apperr.Validation("Bitte gib einen Grund fuer die Abmeldung an.")
	errNotFound    = apperr.NotFound("Abmeldung nicht gefunden.")
	errNotOwner    = apperr.Forbidden("Du kannst nur deine eigenen Abmeldungen loeschen.")
)

// Submit validates the raw form values and stores an active absence. Invalid
// input creates nothing.
func (h *Handler) Submit(ctx context.Context, userID, displayName, reason, fromRaw, toRaw string) (*model.AbsenceRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errNoReason
	}
	from, err := model.ParseDate(fromRaw)
	if err != nil {
		return nil, errInvalidDate
	}
	to, err := model.ParseDate(toRaw)
	if err != nil {
		return nil, errInvalidDate
	}
	if to.Before(from) {
		return nil, errEndBefore
	}

	rec := &model.AbsenceRecord{
		UserID:      userID,
		DisplayName: displayName,
		Reason:      reason,
		StartDate:   from,
		EndDate:     to,
	}
	if _, err := h.Store.CreateAbsence(ctx, rec); err != nil {
		return nil, apperr.Storage(err, "Fehler beim Speichern der Abmeldung.")
	}
	return rec, nil
}

// Terminate deactivates the user's most recently created active absence. It
// reports false when the user has none.
func (h *Handler) Terminate(ctx context.Context, userID string) (bool, error) {
	rec, err := h.Store.LatestActiveAbsence(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Storage(err, "Fehler beim Beenden der Abmeldung.")
	}
	if err := h.Store.DeactivateAbsence(ctx, rec.ID); err != nil {
		return false, apperr.Storage(err, "Fehler beim Beenden der Abmeldung.")
	}
	return true, nil
}

// Delete deactivates absence id on behalf of userID. Only the owner or an
// administrator may do so.
func (h *Handler) Delete(ctx context.Context, id int64, userID string, isAdmin bool) error {
	rec, err := h.Store.GetAbsence(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return errNotFound
	}
	if err != nil {
		return apperr.Storage(err, "Fehler beim Loeschen der Abmeldung.")
	}
	if rec.UserID != userID && !isAdmin {
		return errNotOwner
	}
	if err := h.Store.DeactivateAbsence(ctx, id); err != nil {
		return apperr.Storage(err, "Fehler beim Loeschen der Abmeldung.")
	}
	return nil
}

func (h *Handler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock.Now()
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// republish refreshes the absence panel in channelID, falling back to the
// configured absence channel.
func (h *Handler) republish(ctx context.Context, channelID string) {
	if channelID == "" {
		channelID = h.Config().Channels.Absence
	}
	if channelID == "" {
		return
	}
	h.Panels.PublishPanel(ctx, channelID, model.TopicAbsence)
}
