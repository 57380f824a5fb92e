package panel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/database"
)

type fakeMessenger struct {
	mu         sync.Mutex
	next       int
	sent       map[string]*discordgo.MessageSend
	deleted    []string
	failSend   error
	failDelete error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sent: make(map[string]*discordgo.MessageSend)}
}

func (f *fakeMessenger) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend != nil {
		return nil, f.failSend
	}
	f.next++
	id := fmt.Sprintf("m%d", f.next)
	f.sent[id] = data
	return &discordgo.Message{ID: id, ChannelID: channelID}, nil
}

func (f *fakeMessenger) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.sent[messageID]; !ok {
		return errors.New("HTTP 404 Not Found, Unknown Message")
	}
	delete(f.sent, messageID)
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestStore(t *testing.T, now time.Time) *database.Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	s := database.New(db, clock.NewFake(now))
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setup(t *testing.T, now time.Time) (*Synchronizer, *database.Store, *fakeMessenger) {
	store := newTestStore(t, now)
	messenger := newFakeMessenger()
	syncer := NewSynchronizer(store, messenger, Options{
		Clock:    clock.NewFake(now),
		Location: time.UTC,
	})
	return syncer, store, messenger
}

func TestPublishKeepsExactlyOneRow(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	s, store, messenger := setup(t, now)
	ctx := context.Background()

	var last *discordgo.Message
	for i := 0; i < 4; i++ {
		msg, err := s.Publish(ctx, "c1", model.TopicAbsence)
		require.NoError(t, err)
		last = msg

		n, err := store.CountPanelMessages(ctx, "c1", model.TopicAbsence)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	assert.Equal(t, 1, messenger.live())
	assert.Equal(t, []string{"m1", "m2", "m3"}, messenger.deleted)

	row, err := store.GetPanelMessage(ctx, "c1", model.TopicAbsence)
	require.NoError(t, err)
	assert.Equal(t, last.ID, row.MessageID)
}

func TestPublishToleratesMissingOldMessage(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	s, store, messenger := setup(t, now)
	ctx := context.Background()

	_, err := store.InsertPanelMessage(ctx, &model.PanelMessage{ChannelID: "c1", MessageID: "gone", Topic: model.TopicStance})
	require.NoError(t, err)
	_, err = store.InsertPanelMessage(ctx, &model.PanelMessage{ChannelID: "c1", MessageID: "gone-too", Topic: model.TopicStance})
	require.NoError(t, err)

	msg, err := s.Publish(ctx, "c1", model.TopicStance)
	require.NoError(t, err)

	n, err := store.CountPanelMessages(ctx, "c1", model.TopicStance)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, messenger.live())

	sent := messenger.sent[msg.ID]
	require.Len(t, sent.Embeds, 1)
	assert.Equal(t, "Stance-Tuning Dokumentation", sent.Embeds[0].Title)
}

func TestPublishPanelSwallowsErrors(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	s, store, messenger := setup(t, now)
	ctx := context.Background()

	messenger.failSend = errors.New("Missing Access")
	assert.Nil(t, s.PublishPanel(ctx, "c1", model.TopicAbsence))

	n, err := store.CountPanelMessages(ctx, "c1", model.TopicAbsence)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Nil(t, s.PublishPanel(ctx, "", model.TopicAbsence))
	assert.Nil(t, s.PublishPanel(ctx, "c1", model.Topic("unknown")))
}

func TestPublishConcurrentSamePair(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	s, store, messenger := setup(t, now)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.PublishPanel(ctx, "c1", model.TopicAbsence)
		}()
	}
	wg.Wait()

	n, err := store.CountPanelMessages(ctx, "c1", model.TopicAbsence)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, messenger.live())
}

func TestAbsencePanelRendersStatus(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	s, store, messenger := setup(t, now)
	ctx := context.Background()

	_, err := store.CreateAbsence(ctx, &model.AbsenceRecord{
		UserID: "u1", DisplayName: "Max", Reason: "Urlaub",
		StartDate: model.NewDate(2024, time.December, 20), EndDate: model.NewDate(2024, time.December, 25),
	})
	require.NoError(t, err)
	_, err = store.CreateAbsence(ctx, &model.AbsenceRecord{
		UserID: "u2", DisplayName: "Lisa", Reason: "Umzug",
		StartDate: model.NewDate(2024, time.December, 28), EndDate: model.NewDate(2024, time.December, 30),
	})
	require.NoError(t, err)

	msg, err := s.Publish(ctx, "c1", model.TopicAbsence)
	require.NoError(t, err)
	embed := messenger.sent[msg.ID].Embeds[0]

	assert.Equal(t, "Abmeldungssystem", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "🔴 Abwesend | Max", embed.Fields[0].Name)
	assert.Equal(t, "📅 **20.12.2024** bis **25.12.2024**\n📝 Urlaub", embed.Fields[0].Value)
	assert.Equal(t, "🟡 Geplant | Lisa", embed.Fields[1].Name)
	assert.Equal(t, "2 aktive Abmeldung(en)", embed.Footer.Text)

	buttons := messenger.sent[msg.ID].Components[0].(discordgo.ActionsRow).Components
	require.Len(t, buttons, 2)
	assert.Equal(t, model.AbsenceButtonID, buttons[0].(discordgo.Button).CustomID)
	assert.Equal(t, model.EndAbsenceButtonID, buttons[1].(discordgo.Button).CustomID)
}

func TestAbsenceEmbedEmptyAndOverflow(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	today := model.DateOf(now)

	empty := AbsenceEmbed(nil, today, now)
	require.Len(t, empty.Fields, 1)
	assert.Equal(t, noAbsences, empty.Fields[0].Value)
	assert.Equal(t, "0 aktive Abmeldung(en)", empty.Footer.Text)

	var records []model.AbsenceRecord
	for i := 0; i < 30; i++ {
		records = append(records, model.AbsenceRecord{DisplayName: "n", StartDate: today, EndDate: today})
	}
	full := AbsenceEmbed(records, today, now)
	assert.Len(t, full.Fields, maxEmbedFields)
	assert.Equal(t, "*... und 6 weitere*", full.Fields[maxEmbedFields-1].Value)
	assert.Equal(t, "30 aktive Abmeldung(en)", full.Footer.Text)
}

func TestRenderAttachesLogo(t *testing.T) {
	now := time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC)
	logo := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("png"), 0o644))

	s := NewSynchronizer(newTestStore(t, now), newFakeMessenger(), Options{Clock: clock.NewFake(now), LogoPath: logo})
	send, err := s.Render(context.Background(), model.TopicXenon)
	require.NoError(t, err)
	require.Len(t, send.Files, 1)
	assert.Equal(t, utils.LogoFileName, send.Files[0].Name)
	assert.Equal(t, utils.LogoThumbnailURL, send.Embeds[0].Thumbnail.URL)
	assert.Contains(t, send.Embeds[0].Description, "60 Sekunden")
}
