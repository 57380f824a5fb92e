package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/tasks"
)

// Run sweeps expired absences, opens the gateway, publishes the configured
// panels and blocks until ctx is cancelled. A failed sweep only skips the
// absence panel.
func (b *Bot) Run(ctx context.Context) error {
	cfg := b.GetConfig()
	topics := model.Topics
	if err := tasks.RunStartupSweep(ctx, b.Store, b.Clock.Now().In(cfg.Location), b.Metrics, b.Logger); err != nil {
		topics = model.DocumentationTopics
	}

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	b.PublishConfiguredPanels(ctx, topics)

	b.Logger.Info("Bot is now running. Press CTRL-C to exit.",
		zap.Int("panel_topics", len(topics)))
	<-ctx.Done()
	return nil
}
