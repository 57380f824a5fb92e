package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkstatt-bot/model"
	"werkstatt-bot/utils/clock"
)

const window = 60 * time.Second

type recordingHooks struct {
	mu         sync.Mutex
	nextID     int64
	calls      []string
	images     map[int64]string
	published  map[int64]*string
	discarded  []string
	persistErr error
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{images: make(map[int64]string), published: make(map[int64]*string)}
}

func (h *recordingHooks) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}

func (h *recordingHooks) called(call string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (h *recordingHooks) Persist(_ context.Context, sub *Submission) error {
	if h.persistErr != nil {
		return h.persistErr
	}
	h.mu.Lock()
	h.nextID++
	sub.Doc.ID = h.nextID
	h.mu.Unlock()
	h.record("persist")
	return nil
}

func (h *recordingHooks) PromptChoice(context.Context, *Submission) error {
	h.record("prompt_choice")
	return nil
}

func (h *recordingHooks) PromptUpload(context.Context, *Submission) error {
	h.record("prompt_upload")
	return nil
}

func (h *recordingHooks) AttachImage(_ context.Context, sub *Submission, url string) error {
	h.mu.Lock()
	h.images[sub.Doc.ID] = url
	h.mu.Unlock()
	h.record("attach_image")
	return nil
}

func (h *recordingHooks) DiscardUpload(_ context.Context, _ *Submission, messageID string) error {
	h.mu.Lock()
	h.discarded = append(h.discarded, messageID)
	h.mu.Unlock()
	h.record("discard_upload")
	return nil
}

func (h *recordingHooks) Publish(_ context.Context, sub *Submission) error {
	h.mu.Lock()
	var img *string
	if url, ok := h.images[sub.Doc.ID]; ok {
		img = &url
	}
	h.published[sub.Doc.ID] = img
	h.mu.Unlock()
	h.record("publish")
	return nil
}

func (h *recordingHooks) publishedImage(id int64) (*string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	img, ok := h.published[id]
	return img, ok
}

func newSubmission(userID string, topic model.Topic) *Submission {
	return &Submission{
		UserID:    userID,
		ChannelID: "c-" + string(topic),
		Topic:     topic,
		Doc:       &model.TuningDocumentation{Topic: topic, CustomerName: "Kunde", Plate: "AB123"},
	}
}

func setup(t *testing.T) (*Controller, *recordingHooks, *clock.Fake) {
	t.Helper()
	hooks := newRecordingHooks()
	fake := clock.NewFake(time.Date(2024, time.December, 22, 12, 0, 0, 0, time.UTC))
	c := NewController(hooks, Options{Clock: fake, Window: window})
	t.Cleanup(c.Close)
	return c, hooks, fake
}

func waitFinished(t *testing.T, c *Controller, token string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := c.State(token)
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSkipPublishesWithoutImage(t *testing.T) {
	c, hooks, fake := setup(t)
	sub := newSubmission("u1", model.TopicTuningChip)

	require.NoError(t, c.Begin(context.Background(), sub))
	assert.NotEmpty(t, sub.Token)
	assert.True(t, hooks.called("persist"))
	assert.True(t, hooks.called("prompt_choice"))
	assert.Equal(t, 1, fake.PendingTimers())

	state, ok := c.State(sub.Token)
	require.True(t, ok)
	assert.Equal(t, AwaitingImageChoice, state)

	assert.False(t, c.HandleChoice(sub.Token, "someone-else", false))
	require.True(t, c.HandleChoice(sub.Token, "u1", false))
	waitFinished(t, c, sub.Token)

	img, published := hooks.publishedImage(sub.Doc.ID)
	require.True(t, published)
	assert.Nil(t, img)
	assert.False(t, hooks.called("attach_image"))
	assert.Zero(t, fake.PendingTimers())
}

func TestSecondPressIsRejected(t *testing.T) {
	c, hooks, _ := setup(t)
	sub := newSubmission("u1", model.TopicTuningChip)
	require.NoError(t, c.Begin(context.Background(), sub))

	require.True(t, c.HandleChoice(sub.Token, "u1", true))
	assert.False(t, c.HandleChoice(sub.Token, "u1", false), "queued press already decided the flow")
	assert.False(t, c.HandleChoice(sub.Token, "u1", true))

	require.Eventually(t, func() bool { return hooks.called("prompt_upload") }, time.Second, 5*time.Millisecond)
	state, ok := c.State(sub.Token)
	require.True(t, ok)
	assert.Equal(t, AwaitingImageUpload, state)
}

func TestChoiceWindowExpiry(t *testing.T) {
	c, hooks, fake := setup(t)
	sub := newSubmission("u1", model.TopicStance)
	require.NoError(t, c.Begin(context.Background(), sub))

	fake.Advance(window - time.Second)
	_, ok := c.State(sub.Token)
	assert.True(t, ok, "still waiting before the window ends")

	fake.Advance(time.Second)
	waitFinished(t, c, sub.Token)

	img, published := hooks.publishedImage(sub.Doc.ID)
	require.True(t, published)
	assert.Nil(t, img)
	assert.False(t, c.HandleChoice(sub.Token, "u1", true), "late press is ignored")
}

func TestAttachImageWithinWindow(t *testing.T) {
	c, hooks, fake := setup(t)
	sub := newSubmission("u1", model.TopicTuningChip)
	require.NoError(t, c.Begin(context.Background(), sub))

	require.True(t, c.HandleChoice(sub.Token, "u1", true))
	require.Eventually(t, func() bool {
		return hooks.called("prompt_upload") && fake.PendingTimers() == 1
	}, 2*time.Second, 5*time.Millisecond)

	state, _ := c.State(sub.Token)
	assert.Equal(t, AwaitingImageUpload, state)
	assert.False(t, c.HandleChoice(sub.Token, "u1", false), "second press in the same flow is ignored")

	fake.Advance(30 * time.Second)
	assert.False(t, c.HandleMessage(sub.ChannelID, "u1", "m0", nil), "messages without attachment do not count")
	assert.False(t, c.HandleMessage("other-channel", "u1", "m1", []*discordgo.MessageAttachment{{URL: "https://cdn/other.png"}}))
	assert.False(t, c.HandleMessage(sub.ChannelID, "u2", "m2", []*discordgo.MessageAttachment{{URL: "https://cdn/u2.png"}}))

	require.True(t, c.HandleMessage(sub.ChannelID, "u1", "m3", []*discordgo.MessageAttachment{
		{URL: "https://cdn/first.png"},
		{URL: "https://cdn/second.png"},
	}))
	waitFinished(t, c, sub.Token)

	img, published := hooks.publishedImage(sub.Doc.ID)
	require.True(t, published)
	require.NotNil(t, img)
	assert.Equal(t, "https://cdn/first.png", *img)
	assert.Equal(t, []string{"m3"}, hooks.discarded)
}

func TestUploadWindowExpiry(t *testing.T) {
	c, hooks, fake := setup(t)
	sub := newSubmission("u1", model.TopicXenon)
	require.NoError(t, c.Begin(context.Background(), sub))

	fake.Advance(50 * time.Second)
	require.True(t, c.HandleChoice(sub.Token, "u1", true))
	require.Eventually(t, func() bool {
		return hooks.called("prompt_upload") && fake.PendingTimers() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// the upload window is a fresh one
	fake.Advance(50 * time.Second)
	_, ok := c.State(sub.Token)
	assert.True(t, ok)

	fake.Advance(10 * time.Second)
	waitFinished(t, c, sub.Token)

	img, published := hooks.publishedImage(sub.Doc.ID)
	require.True(t, published)
	assert.Nil(t, img)
	assert.False(t, c.HandleMessage(sub.ChannelID, "u1", "late", []*discordgo.MessageAttachment{{URL: "https://cdn/late.png"}}))
}

func TestNewSubmissionSupersedesPending(t *testing.T) {
	c, hooks, _ := setup(t)
	first := newSubmission("u1", model.TopicTuningChip)
	require.NoError(t, c.Begin(context.Background(), first))

	other := newSubmission("u1", model.TopicStance)
	require.NoError(t, c.Begin(context.Background(), other))

	second := newSubmission("u1", model.TopicTuningChip)
	require.NoError(t, c.Begin(context.Background(), second))

	waitFinished(t, c, first.Token)
	_, published := hooks.publishedImage(first.Doc.ID)
	assert.True(t, published)

	state, ok := c.State(other.Token)
	require.True(t, ok, "other topics are independent")
	assert.Equal(t, AwaitingImageChoice, state)
	state, ok = c.State(second.Token)
	require.True(t, ok)
	assert.Equal(t, AwaitingImageChoice, state)
	assert.Equal(t, 2, c.Active())
}

func TestPersistFailureStartsNothing(t *testing.T) {
	c, hooks, fake := setup(t)
	hooks.persistErr = errors.New("database is locked")

	err := c.Begin(context.Background(), newSubmission("u1", model.TopicStance))
	assert.ErrorContains(t, err, "database is locked")
	assert.Zero(t, c.Active())
	assert.Zero(t, fake.PendingTimers())
	assert.False(t, hooks.called("prompt_choice"))
}

func TestCloseAbandonsPendingFlows(t *testing.T) {
	c, hooks, _ := setup(t)
	sub := newSubmission("u1", model.TopicStance)
	require.NoError(t, c.Begin(context.Background(), sub))

	c.Close()
	assert.Zero(t, c.Active())
	assert.False(t, hooks.called("publish"))
	assert.ErrorIs(t, c.Begin(context.Background(), newSubmission("u2", model.TopicStance)), ErrClosed)
}

func TestChoiceButtonID(t *testing.T) {
	id := ChoiceButtonID("abc-123", true)
	assert.Equal(t, "flow:abc-123:attach", id)

	token, attach, ok := ParseChoiceButtonID(id)
	require.True(t, ok)
	assert.Equal(t, "abc-123", token)
	assert.True(t, attach)

	token, attach, ok = ParseChoiceButtonID(ChoiceButtonID("abc-123", false))
	require.True(t, ok)
	assert.Equal(t, "abc-123", token)
	assert.False(t, attach)

	for _, bad := range []string{"", "flow:", "flow::attach", "flow:abc:maybe", "doku_button:stance"} {
		_, _, ok := ParseChoiceButtonID(bad)
		assert.False(t, ok, bad)
	}
}
