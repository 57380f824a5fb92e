package handlers

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/handlers/absence"
	"werkstatt-bot/handlers/tuning"
	"werkstatt-bot/model"
	"werkstatt-bot/utils"
	"werkstatt-bot/utils/apperr"
	"werkstatt-bot/utils/metrics"
)

// MessageSink receives channel messages that may complete an image upload.
type MessageSink interface {
	HandleMessage(channelID, userID, messageID string, attachments []*discordgo.MessageAttachment) bool
}

type router struct {
	commands map[string]func(s model.Session, i *discordgo.InteractionCreate)
	absence  *absence.Handler
	tuning   *tuning.Handler
	messages MessageSink
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// ackSession remembers how the interaction was acknowledged so a failure
// after the acknowledgement can still reach the user.
type ackSession struct {
	model.Session

	mu  sync.Mutex
	ack discordgo.InteractionResponseType
}

func (a *ackSession) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	err := a.Session.InteractionRespond(i, resp, options...)
	if err == nil {
		a.mu.Lock()
		a.ack = resp.Type
		a.mu.Unlock()
	}
	return err
}

func (a *ackSession) acknowledged() discordgo.InteractionResponseType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ack
}

// sendPanicMessage answers with the generic message in whatever way the
// acknowledgement state still allows.
func (r *router) sendPanicMessage(s *ackSession, i *discordgo.InteractionCreate) {
	var err error
	switch s.acknowledged() {
	case 0:
		err = utils.SendEphemeral(s, i, apperr.GenericMessage)
	case discordgo.InteractionResponseDeferredChannelMessageWithSource:
		err = utils.SendFollowUp(s, i.Interaction, apperr.GenericMessage)
	default:
		err = utils.SendEphemeralFollowUp(s, i.Interaction, apperr.GenericMessage)
	}
	if err != nil {
		r.logger.Warn("error sending panic message", zap.String("interaction_id", i.ID), zap.Error(err))
	}
}

func interactionKind(t discordgo.InteractionType) string {
	switch t {
	case discordgo.InteractionApplicationCommand:
		return "command"
	case discordgo.InteractionMessageComponent:
		return "component"
	case discordgo.InteractionModalSubmit:
		return "modal"
	default:
		return "other"
	}
}

// handleInteraction routes i and keeps a panicking handler from taking the
// gateway loop down with it.
func (r *router) handleInteraction(session model.Session, i *discordgo.InteractionCreate) {
	kind := interactionKind(i.Type)
	s := &ackSession{Session: session}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while handling interaction",
				zap.Any("panic", rec),
				zap.String("kind", kind),
				zap.String("interaction_id", i.ID),
				zap.Stack("stack"))
			r.sendPanicMessage(s, i)
			r.metrics.Interaction(kind, "panic")
		}
	}()

	result := "ok"
	if !r.route(s, i) {
		result = "unknown"
		r.logger.Debug("unhandled interaction", zap.String("kind", kind), zap.String("interaction_id", i.ID))
	}
	r.metrics.Interaction(kind, result)
}

func (r *router) route(s model.Session, i *discordgo.InteractionCreate) bool {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := r.commands[i.ApplicationCommandData().Name]; ok {
			h(s, i)
			return true
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case customID == model.AbsenceButtonID:
			r.absence.HandleOpenModal(s, i)
		case customID == model.EndAbsenceButtonID:
			r.absence.HandleEnd(s, i)
		case strings.HasPrefix(customID, model.DocumentationButtonPrefix):
			r.tuning.HandleOpenModal(s, i)
		case strings.HasPrefix(customID, model.FlowButtonPrefix):
			r.tuning.HandleChoice(s, i)
		default:
			return false
		}
		return true
	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		switch {
		case customID == model.AbsenceModalID:
			r.absence.HandleModalSubmit(s, i)
		case strings.HasPrefix(customID, model.DocumentationModalPrefix):
			r.tuning.HandleModalSubmit(s, i)
		default:
			return false
		}
		return true
	}
	return false
}

// handleMessage hands image uploads to waiting submission flows.
func (r *router) handleMessage(m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || len(m.Attachments) == 0 {
		return
	}
	if r.messages.HandleMessage(m.ChannelID, m.Author.ID, m.ID, m.Attachments) {
		r.logger.Debug("image upload delivered", zap.String("channel_id", m.ChannelID), zap.String("user_id", m.Author.ID))
	}
}
