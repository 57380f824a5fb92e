package model

import "time"

// ChannelConfig holds the fixed channels the bot posts into.
type ChannelConfig struct {
	Absence    string
	Sanction   string
	TuningChip string
	Stance     string
	Xenon      string
}

// ForTopic returns the configured channel of a panel topic.
func (c ChannelConfig) ForTopic(t Topic) string {
	switch t {
	case TopicAbsence:
		return c.Absence
	case TopicTuningChip:
		return c.TuningChip
	case TopicStance:
		return c.Stance
	case TopicXenon:
		return c.Xenon
	default:
		return ""
	}
}

// LogConfig configures the zap logger and the Discord webhook sink.
type LogConfig struct {
	Level      string
	Format     string
	WebhookURL string
}

// Config stores the application configuration.
type Config struct {
	BotToken         string
	ClientID         string
	GuildID          string
	Production       bool
	DatabasePath     string
	LogoPath         string
	LockFile         string
	Location         *time.Location
	FlowWindow       time.Duration
	Channels         ChannelConfig
	AdminRoleIDs     []string
	ModeratorRoleIDs []string
	Log              LogConfig
	MetricsAddr      string
}
