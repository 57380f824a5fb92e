package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

type DiscordEmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type DiscordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Fields    []DiscordEmbedField `json:"fields"`
	Timestamp string              `json:"timestamp,omitempty"`
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

var webhookClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: 15 * time.Second,
}

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

func levelOf(l zapcore.Level) LogLevel {
	switch {
	case l >= zapcore.ErrorLevel:
		return Error
	case l == zapcore.WarnLevel:
		return Warn
	default:
		return Info
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	if len(s) > 1024 {
		return s[:1021] + "..."
	}
	return s
}

func sendLog(client *http.Client, webhookURL string, level LogLevel, module, operation, extraInfo string, at time.Time) error {
	embed := DiscordEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []DiscordEmbedField{
			{Name: "Modul", Value: orDash(module)},
			{Name: "Vorgang", Value: orDash(operation)},
			{Name: "Details", Value: orDash(extraInfo)},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
	}

	jsonPayload, err := json.Marshal(DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to send log to discord, status: %s, body: %s", resp.Status, string(body))
	}

	return nil
}

// WebhookCore forwards warn and error entries, fields included, to a Discord
// webhook. Delivery happens in the background and failures are dropped, so
// logging never blocks on Discord.
type WebhookCore struct {
	zapcore.LevelEnabler

	url    string
	client *http.Client
	fields []zapcore.Field
}

func NewWebhookCore(webhookURL string, client *http.Client) *WebhookCore {
	if client == nil {
		client = webhookClient
	}
	return &WebhookCore{LevelEnabler: zapcore.WarnLevel, url: webhookURL, client: client}
}

func (c *WebhookCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

func (c *WebhookCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *WebhookCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	details := webhookDetails(entry, append(append([]zapcore.Field(nil), c.fields...), fields...))
	go func() {
		_ = sendLog(c.client, c.url, levelOf(entry.Level), entry.LoggerName, entry.Message, details, entry.Time)
	}()
	return nil
}

func (c *WebhookCore) Sync() error { return nil }

// webhookDetails renders the caller and the fields as "key: value" lines,
// the error first so truncation never cuts it.
func webhookDetails(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if (keys[a] == "error") != (keys[b] == "error") {
			return keys[a] == "error"
		}
		return keys[a] < keys[b]
	})

	var lines []string
	if entry.Caller.Defined {
		lines = append(lines, entry.Caller.TrimmedPath())
	}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, enc.Fields[k]))
	}
	return strings.Join(lines, "\n")
}
