package handlers

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

// PanelPublisher posts or replaces the panel of a topic.
type PanelPublisher interface {
	PublishPanel(ctx context.Context, channelID string, topic model.Topic) *discordgo.Message
}

// PanelCommandHandler serves /panel and the documentation panel commands: the
// panel of topic is published below the invoking channel's latest message.
func PanelCommandHandler(s model.Session, i *discordgo.InteractionCreate, panels PanelPublisher, cfg *model.Config, topic model.Topic, logger *zap.Logger) {
	if !utils.HasPermission(i.Member, utils.AdminPermission, cfg.AdminRoleIDs, cfg.ModeratorRoleIDs) {
		utils.SendErrorResponse(s, i, "Du hast keine Berechtigung fuer diesen Befehl.")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		logger.Warn("error deferring panel command", zap.Error(err))
		return
	}

	content := "Panel wurde erstellt/aktualisiert!"
	if msg := panels.PublishPanel(context.Background(), i.ChannelID, topic); msg == nil {
		content = "Fehler beim Erstellen des Panels."
	}
	if err := utils.SendFollowUp(s, i.Interaction, content); err != nil {
		logger.Warn("error confirming panel command", zap.String("topic", string(topic)), zap.Error(err))
	}
}
