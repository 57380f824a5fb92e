package bot

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"werkstatt-bot/commands"
	"werkstatt-bot/flow"
	"werkstatt-bot/model"
	"werkstatt-bot/panel"
	"werkstatt-bot/tuningdoc"
	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/database"
	"werkstatt-bot/utils/metrics"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s model.Session, i *discordgo.InteractionCreate)

	Store    *database.Store
	Panels   *panel.Synchronizer
	Docs     *tuningdoc.Service
	Flows    *flow.Controller
	Validate *validator.Validate
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Clock    clock.Clock
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

// Today is the current calendar day in the configured time zone.
func (b *Bot) Today() model.Date {
	return model.DateOf(b.Clock.Now().In(b.GetConfig().Location))
}

func New(cfg *model.Config, store *database.Store, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers | discordgo.IntentMessageContent
	dg.StateEnabled = false

	clk := clock.Real()
	validate := model.NewValidator()

	b := &Bot{
		Session:  dg,
		Store:    store,
		Validate: validate,
		Metrics:  m,
		Logger:   logger,
		Clock:    clk,
	}
	b.config.Store(cfg)

	b.Panels = panel.NewSynchronizer(store, dg, panel.Options{
		Clock:      clk,
		Location:   cfg.Location,
		LogoPath:   cfg.LogoPath,
		FlowWindow: cfg.FlowWindow,
		Logger:     logger,
		Metrics:    m,
	})
	b.Docs = tuningdoc.NewService(store, dg, b.Panels, tuningdoc.Options{
		Validate: validate,
		Window:   cfg.FlowWindow,
		LogoPath: cfg.LogoPath,
		Logger:   logger,
	})
	b.Flows = flow.NewController(b.Docs, flow.Options{
		Clock:   clk,
		Window:  cfg.FlowWindow,
		Logger:  logger,
		Metrics: m,
	})
	return b, nil
}

// Close abandons pending submission flows and closes the gateway. Records
// already persisted by those flows stay as they are.
func (b *Bot) Close() {
	b.Logger.Info("Gracefully shutting down.")
	b.Flows.Close()
	if err := b.Session.Close(); err != nil {
		b.Logger.Warn("error closing gateway", zap.Error(err))
	}
}

// DeployCommands overwrites the slash commands of the configured guild, or
// the global ones when no guild is configured.
func (b *Bot) DeployCommands() error {
	cfg := b.GetConfig()
	appID := cfg.ClientID
	if appID == "" && b.Session.State != nil && b.Session.State.User != nil {
		appID = b.Session.State.User.ID
	}
	if appID == "" {
		return fmt.Errorf("CLIENT_ID is required to register commands")
	}

	cmds := commands.GenerateCommands()
	scope := "global"
	if cfg.GuildID != "" {
		scope = "guild " + cfg.GuildID
	}
	b.Logger.Info("Registering commands", zap.Int("count", len(cmds)), zap.String("scope", scope))
	registered, err := b.Session.ApplicationCommandBulkOverwrite(appID, cfg.GuildID, cmds)
	if err != nil {
		return fmt.Errorf("cannot register commands for %s: %w", scope, err)
	}
	b.RegisteredCommands = registered
	return nil
}

// PublishConfiguredPanels publishes the panel of every topic in topics whose
// channel is configured. Failures are logged per topic.
func (b *Bot) PublishConfiguredPanels(ctx context.Context, topics []model.Topic) {
	channels := b.GetConfig().Channels
	for _, topic := range topics {
		channelID := channels.ForTopic(topic)
		if channelID == "" {
			continue
		}
		if msg := b.Panels.PublishPanel(ctx, channelID, topic); msg != nil {
			b.Logger.Info("Panel published", zap.String("topic", string(topic)), zap.String("channel_id", channelID))
		}
	}
}
