package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"werkstatt-bot/model"
)

// ErrMissingToken is returned by Validate when DISCORD_TOKEN is empty.
var ErrMissingToken = errors.New("DISCORD_TOKEN environment variable not set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_PATH", "data/bot.db")
	v.SetDefault("LOGO_PATH", "/srv/samba/share/logo_firma.png")
	v.SetDefault("TIMEZONE", "Europe/Berlin")
	v.SetDefault("FLOW_WINDOW", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads the configuration from envFile (if it exists) and the process
// environment. Environment variables win over the file.
func Load(envFile string) (*model.Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	location, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", v.GetString("TIMEZONE"), err)
	}

	lockFile := v.GetString("LOCK_FILE")
	if lockFile == "" {
		lockFile = "bot.lock"
		if v.GetString("DOCKER_CONTAINER") != "" {
			lockFile = "/tmp/bot.lock"
		}
	}

	cfg := &model.Config{
		BotToken:     v.GetString("DISCORD_TOKEN"),
		ClientID:     v.GetString("CLIENT_ID"),
		GuildID:      v.GetString("GUILD_ID"),
		Production:   strings.EqualFold(v.GetString("ENV"), "production"),
		DatabasePath: v.GetString("DATABASE_PATH"),
		LogoPath:     v.GetString("LOGO_PATH"),
		LockFile:     lockFile,
		Location:     location,
		FlowWindow:   parseDuration(v.GetString("FLOW_WINDOW"), 60*time.Second),
		Channels: model.ChannelConfig{
			Absence:    v.GetString("ABMELDUNG_CHANNEL_ID"),
			Sanction:   v.GetString("SANKTION_CHANNEL_ID"),
			TuningChip: v.GetString("TUNINGCHIP_CHANNEL_ID"),
			Stance:     v.GetString("STANCE_CHANNEL_ID"),
			Xenon:      v.GetString("XENON_CHANNEL_ID"),
		},
		AdminRoleIDs:     splitAndTrim(v.GetString("ADMIN_ROLE_IDS")),
		ModeratorRoleIDs: splitAndTrim(v.GetString("MODERATOR_ROLE_IDS")),
		Log: model.LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			WebhookURL: v.GetString("LOG_WEBHOOK_URL"),
		},
		MetricsAddr: v.GetString("METRICS_ADDR"),
	}
	return cfg, nil
}

// Validate checks the settings needed to connect to Discord.
func Validate(cfg *model.Config) error {
	if cfg.BotToken == "" {
		return ErrMissingToken
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
