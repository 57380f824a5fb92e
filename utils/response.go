package utils

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils/apperr"
)

// SendErrorResponse sends an ephemeral error message.
func SendErrorResponse(s model.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		zap.L().Warn("error sending error response", zap.Error(err))
	}
}

// SendEphemeral answers the interaction with a message only the invoker sees.
func SendEphemeral(s model.Session, i *discordgo.InteractionCreate, message string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// SendEmbed answers the interaction with an embed.
func SendEmbed(s model.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// SendFollowUp replaces the content of a deferred or earlier response.
func SendFollowUp(s model.Session, i *discordgo.Interaction, message string) error {
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:    &message,
		Components: &[]discordgo.MessageComponent{},
	})
	return err
}

// SendEphemeralFollowUp posts a new message only the invoker sees, leaving
// the original response untouched.
func SendEphemeralFollowUp(s model.Session, i *discordgo.Interaction, message string) error {
	_, err := s.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: message,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// DeferResponse defers an interaction response, optionally making it ephemeral.
func DeferResponse(s model.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		}
	}
	return s.InteractionRespond(i.Interaction, response)
}

// DeferUpdate acknowledges a component interaction without changing its message.
func DeferUpdate(s model.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// RespondError reports err to the user. Validation, not-found and permission
// errors are user mistakes and are not logged; everything else is logged with
// its cause and answered with the stored or generic message. deferred selects
// editing the deferred response instead of a fresh reply.
func RespondError(s model.Session, i *discordgo.InteractionCreate, err error, deferred bool, logger *zap.Logger) {
	if err == nil {
		return
	}
	if apperr.ShouldLog(err) && logger != nil {
		logger.Error("interaction failed",
			zap.String("kind", apperr.KindOf(err).String()),
			zap.String("interaction_id", i.ID),
			zap.Error(err))
	}
	msg := apperr.UserMessage(err)
	if deferred {
		if ferr := SendFollowUp(s, i.Interaction, msg); ferr != nil && logger != nil {
			logger.Warn("error sending follow-up error message", zap.Error(ferr))
		}
		return
	}
	if rerr := SendEphemeral(s, i, msg); rerr != nil && logger != nil {
		logger.Warn("error sending error response", zap.Error(rerr))
	}
}
