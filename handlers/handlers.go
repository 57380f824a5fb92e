package handlers

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/bot"
	"werkstatt-bot/commands/defs"
	"werkstatt-bot/handlers/absence"
	"werkstatt-bot/handlers/sanction"
	"werkstatt-bot/handlers/tuning"
	"werkstatt-bot/model"
)

func Register(b *bot.Bot) {
	r := newRouter(b)
	b.CommandHandlers = r.commands
	addHandlers(b, r)
}

func newRouter(b *bot.Bot) *router {
	abs := &absence.Handler{
		Store:  b.Store,
		Panels: b.Panels,
		Config: b.GetConfig,
		Clock:  b.Clock,
		Logger: b.Logger.Named("absence"),
	}
	sanc := &sanction.Handler{
		Store:    b.Store,
		Config:   b.GetConfig,
		Validate: b.Validate,
		Clock:    b.Clock,
		Logger:   b.Logger.Named("sanction"),
	}
	tun := &tuning.Handler{
		Docs:   b.Docs,
		Flows:  b.Flows,
		Config: b.GetConfig,
		Logger: b.Logger.Named("tuning"),
	}
	return &router{
		commands: commandHandlers(b, abs, sanc, tun),
		absence:  abs,
		tuning:   tun,
		messages: b.Flows,
		logger:   b.Logger,
		metrics:  b.Metrics,
	}
}

func commandHandlers(b *bot.Bot, abs *absence.Handler, sanc *sanction.Handler, tun *tuning.Handler) map[string]func(s model.Session, i *discordgo.InteractionCreate) {
	handlers := map[string]func(s model.Session, i *discordgo.InteractionCreate){
		"abmelden":           abs.HandleCreateCommand,
		"abmeldungen":        abs.HandleListCommand,
		"abmeldung-loeschen": abs.HandleDeleteCommand,
		"sanktion":           sanc.HandleIssueCommand,
		"sanktionen":         sanc.HandleListCommand,
		"sanktion-aufheben":  sanc.HandleLiftCommand,
		"eigentuning":        tun.HandleEigentuningCommand,
		"userinfo": func(s model.Session, i *discordgo.InteractionCreate) {
			UserInfoHandler(s, i, b.Store, b.Clock.Now(), b.Logger)
		},
		"systeminfo": func(s model.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b.Store, b.GetConfig(), b.Session.HeartbeatLatency(), b.Clock.Now(), b.Logger)
		},
	}
	for _, topic := range model.DocumentationTopics {
		topic := topic
		handlers[string(topic)] = func(s model.Session, i *discordgo.InteractionCreate) {
			tun.HandleDocumentCommand(s, i, topic)
		}
	}
	for name, topic := range defs.PanelCommandTopics {
		topic := topic
		handlers[name] = func(s model.Session, i *discordgo.InteractionCreate) {
			PanelCommandHandler(s, i, b.Panels, b.GetConfig(), topic, b.Logger)
		}
	}
	return handlers
}

func addHandlers(b *bot.Bot, r *router) {
	b.Session.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		b.Logger.Info("Logged in",
			zap.String("user", ready.User.Username),
			zap.Int("guilds", len(ready.Guilds)))
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		r.handleInteraction(s, i)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		r.handleMessage(m)
	})
}
