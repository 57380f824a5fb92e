// Package panel keeps one live status message per (channel, topic) at the
// bottom of its channel by deleting the previous message and posting a new one.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/database"
	"werkstatt-bot/utils/metrics"
)

// Store is the part of the record store the synchronizer reads and writes.
type Store interface {
	ActiveAbsences(ctx context.Context) ([]model.AbsenceRecord, error)
	GetPanelMessage(ctx context.Context, channelID string, topic model.Topic) (*model.PanelMessage, error)
	DeletePanelMessage(ctx context.Context, id int64) error
	InsertPanelMessage(ctx context.Context, p *model.PanelMessage) (int64, error)
}

// Messenger sends and deletes channel messages. *discordgo.Session satisfies it.
type Messenger interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Options configures a Synchronizer.
type Options struct {
	Clock    clock.Clock
	Location *time.Location
	// LogoPath is attached as thumbnail when the file exists.
	LogoPath string
	// FlowWindow is announced on documentation panels.
	FlowWindow time.Duration
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Synchronizer publishes panels. Publishes of the same (channel, topic) are
// serialized; different pairs run independently.
type Synchronizer struct {
	store     Store
	messenger Messenger
	clock     clock.Clock
	location  *time.Location
	logoPath  string
	window    time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(store Store, messenger Messenger, opts Options) *Synchronizer {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FlowWindow <= 0 {
		opts.FlowWindow = 60 * time.Second
	}
	return &Synchronizer{
		store:     store,
		messenger: messenger,
		clock:     opts.Clock,
		location:  opts.Location,
		logoPath:  opts.LogoPath,
		window:    opts.FlowWindow,
		logger:    opts.Logger.Named("panel"),
		metrics:   opts.Metrics,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Synchronizer) lockFor(channelID string, topic model.Topic) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := channelID + "|" + string(topic)
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Today is the current calendar day in the configured location.
func (s *Synchronizer) Today() model.Date {
	return model.DateOf(s.clock.Now().In(s.location))
}

// Render builds the panel message of topic from the current store state.
func (s *Synchronizer) Render(ctx context.Context, topic model.Topic) (*discordgo.MessageSend, error) {
	now := s.clock.Now().In(s.location)

	var send *discordgo.MessageSend
	switch {
	case topic == model.TopicAbsence:
		records, err := s.store.ActiveAbsences(ctx)
		if err != nil {
			return nil, err
		}
		send = &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{AbsenceEmbed(records, model.DateOf(now), now)},
			Components: AbsenceComponents(),
		}
	case topic.IsDocumentation():
		send = &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{DocumentationEmbed(topic, s.window, now)},
			Components: DocumentationComponents(topic),
		}
	default:
		return nil, fmt.Errorf("unknown panel topic %q", topic)
	}

	if logo := utils.LoadLogo(s.logoPath); logo != nil {
		send.Files = []*discordgo.File{logo}
		send.Embeds[0].Thumbnail = &discordgo.MessageEmbedThumbnail{URL: utils.LogoThumbnailURL}
	}
	return send, nil
}

// Publish renders topic, removes the previous panel of (channelID, topic) and
// posts the new one at the bottom of the channel. Deleting the old message is
// best effort; its row is always removed. On success exactly one row exists
// for the pair.
func (s *Synchronizer) Publish(ctx context.Context, channelID string, topic model.Topic) (*discordgo.Message, error) {
	if channelID == "" {
		return nil, fmt.Errorf("no channel configured for panel %s", topic)
	}

	l := s.lockFor(channelID, topic)
	l.Lock()
	defer l.Unlock()

	send, err := s.Render(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("render panel %s: %w", topic, err)
	}

	if err := s.removeExisting(ctx, channelID, topic); err != nil {
		return nil, err
	}

	msg, err := s.messenger.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("send panel %s to channel %s: %w", topic, channelID, err)
	}

	if _, err := s.store.InsertPanelMessage(ctx, &model.PanelMessage{
		ChannelID: channelID,
		MessageID: msg.ID,
		Topic:     topic,
	}); err != nil {
		return nil, fmt.Errorf("record panel %s: %w", topic, err)
	}
	return msg, nil
}

// Databases written by older versions may hold several rows per pair, so
// every row is removed, not just the newest.
func (s *Synchronizer) removeExisting(ctx context.Context, channelID string, topic model.Topic) error {
	for {
		existing, err := s.store.GetPanelMessage(ctx, channelID, topic)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("look up panel %s: %w", topic, err)
		}

		if err := s.messenger.ChannelMessageDelete(channelID, existing.MessageID, discordgo.WithContext(ctx)); err != nil {
			s.logger.Debug("old panel message not deleted",
				zap.String("channel_id", channelID),
				zap.String("message_id", existing.MessageID),
				zap.Error(err))
		}
		if err := s.store.DeletePanelMessage(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete panel row %d: %w", existing.ID, err)
		}
	}
}

// PublishPanel is Publish for callers that must not fail: errors are logged
// and nil is returned.
func (s *Synchronizer) PublishPanel(ctx context.Context, channelID string, topic model.Topic) *discordgo.Message {
	msg, err := s.Publish(ctx, channelID, topic)
	s.metrics.PanelPublished(string(topic), err)
	if err != nil {
		s.logger.Error("panel publish failed",
			zap.String("channel_id", channelID),
			zap.String("topic", string(topic)),
			zap.Error(err))
		return nil
	}
	s.logger.Debug("panel published",
		zap.String("channel_id", channelID),
		zap.String("topic", string(topic)),
		zap.String("message_id", msg.ID))
	return msg
}
