package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/metrics"
)

// ErrClosed is returned by Begin after Close.
var ErrClosed = errors.New("submission flows are shut down")

// Submission is one in-flight documentation. Doc is persisted before the
// flow starts waiting; Interaction is the modal submit whose ephemeral reply
// carries the prompts.
type Submission struct {
	Token       string
	UserID      string
	ChannelID   string
	Topic       model.Topic
	Doc         *model.TuningDocumentation
	Interaction *discordgo.Interaction
}

func (s *Submission) key() string { return s.UserID + "|" + string(s.Topic) }

// Hooks performs the side effects of a flow.
type Hooks interface {
	// Persist stores the record without image and sets Doc.ID.
	Persist(ctx context.Context, sub *Submission) error
	// PromptChoice offers "attach image" and "continue without".
	PromptChoice(ctx context.Context, sub *Submission) error
	// PromptUpload asks for the image message.
	PromptUpload(ctx context.Context, sub *Submission) error
	// AttachImage stores the image URL on the record.
	AttachImage(ctx context.Context, sub *Submission, url string) error
	// DiscardUpload deletes the user's upload message.
	DiscardUpload(ctx context.Context, sub *Submission, messageID string) error
	// Publish posts the finished documentation and refreshes the topic panel.
	Publish(ctx context.Context, sub *Submission) error
}

// Options configures a Controller.
type Options struct {
	Clock   clock.Clock
	Window  time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Controller runs one goroutine per in-flight submission. Each goroutine owns
// its state and its single window timer; everything else reaches it through
// its event queue.
type Controller struct {
	hooks   Hooks
	clock   clock.Clock
	window  time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	byKey   map[string]*run
	byToken map[string]*run
}

type run struct {
	sub    *Submission
	events chan Event
	state  atomic.Int32
	// chosen is set by the first accepted button press.
	chosen atomic.Bool
}

func (r *run) State() State { return State(r.state.Load()) }

// deliver never blocks; a full queue means the flow already has more input
// than any window can accept.
func (r *run) deliver(ev Event) bool {
	select {
	case r.events <- ev:
		return true
	default:
		return false
	}
}

// NewController creates a Controller.
func NewController(hooks Hooks, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Window <= 0 {
		opts.Window = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		hooks:   hooks,
		clock:   opts.Clock,
		window:  opts.Window,
		logger:  opts.Logger.Named("flow"),
		metrics: opts.Metrics,
		ctx:     ctx,
		cancel:  cancel,
		byKey:   make(map[string]*run),
		byToken: make(map[string]*run),
	}
}

// Window is the length of each acceptance window.
func (c *Controller) Window() time.Duration { return c.window }

// Begin persists the submission and starts waiting for the image choice. A
// pending flow of the same user and topic is finalized without image. The
// record exists once Begin returns nil, whatever the user does afterwards.
func (c *Controller) Begin(ctx context.Context, sub *Submission) error {
	if sub.Doc == nil {
		return errors.New("submission without documentation")
	}
	if sub.Token == "" {
		sub.Token = uuid.NewString()
	}

	state, actions := Transition(AwaitingForm, Event{Kind: EventSubmitted})
	for _, a := range actions {
		if a.Kind == ActionPersist {
			if err := c.hooks.Persist(ctx, sub); err != nil {
				return err
			}
		}
	}

	r := &run{sub: sub, events: make(chan Event, 4)}
	state, actions = Transition(state, Event{Kind: EventPersisted})
	r.state.Store(int32(state))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if old, ok := c.byKey[sub.key()]; ok {
		old.deliver(Event{Kind: EventSuperseded})
	}
	c.byKey[sub.key()] = r
	c.byToken[sub.Token] = r
	c.wg.Add(1)
	c.mu.Unlock()

	c.metrics.FlowStarted()
	c.logger.Debug("submission flow started",
		zap.String("token", sub.Token),
		zap.String("user_id", sub.UserID),
		zap.String("topic", string(sub.Topic)),
		zap.Int64("record_id", sub.Doc.ID))

	timer := c.execute(r, actions, nil)
	go c.loop(r, timer)
	return nil
}

func (c *Controller) loop(r *run, timer clock.Timer) {
	defer c.wg.Done()
	defer c.unregister(r)

	for {
		var ev Event
		var expired <-chan time.Time
		if timer != nil {
			expired = timer.C()
		}
		select {
		case ev = <-r.events:
		case <-expired:
			timer = nil
			ev = Event{Kind: EventWindowExpired}
		case <-c.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			c.finish(r, "abandoned")
			return
		}

		next, actions := Transition(r.State(), ev)
		if next == r.State() && len(actions) == 0 {
			continue
		}
		r.state.Store(int32(next))
		timer = c.execute(r, actions, timer)

		if next == Finalizing {
			done, _ := Transition(next, Event{Kind: EventFinalized})
			r.state.Store(int32(done))
			c.finish(r, outcome(ev))
			return
		}
	}
}

func outcome(ev Event) string {
	switch ev.Kind {
	case EventImageUploaded:
		return "image"
	case EventSkip:
		return "skipped"
	case EventWindowExpired:
		return "expired"
	case EventSuperseded:
		return "superseded"
	default:
		return "other"
	}
}

// execute runs actions in order and returns the timer that is armed afterwards.
func (c *Controller) execute(r *run, actions []Action, timer clock.Timer) clock.Timer {
	ctx := c.ctx
	sub := r.sub
	for _, a := range actions {
		switch a.Kind {
		case ActionArmWindow:
			if timer != nil {
				timer.Stop()
			}
			timer = c.clock.NewTimer(c.window)
		case ActionDisarmWindow:
			if timer != nil {
				timer.Stop()
				timer = nil
			}
		case ActionPromptChoice:
			if err := c.hooks.PromptChoice(ctx, sub); err != nil {
				c.logger.Warn("image choice prompt failed", zap.String("token", sub.Token), zap.Error(err))
			}
		case ActionPromptUpload:
			if err := c.hooks.PromptUpload(ctx, sub); err != nil {
				c.logger.Warn("upload prompt failed", zap.String("token", sub.Token), zap.Error(err))
			}
		case ActionAttachImage:
			if err := c.hooks.AttachImage(ctx, sub, a.ImageURL); err != nil {
				c.logger.Error("attaching image failed", zap.String("token", sub.Token), zap.Error(err))
			}
		case ActionDeleteUpload:
			if err := c.hooks.DiscardUpload(ctx, sub, a.MessageID); err != nil {
				c.logger.Debug("upload message not deleted", zap.String("message_id", a.MessageID), zap.Error(err))
			}
		case ActionPublish:
			if err := c.hooks.Publish(ctx, sub); err != nil {
				c.logger.Error("publishing documentation failed", zap.String("token", sub.Token), zap.Error(err))
			}
		}
	}
	return timer
}

func (c *Controller) finish(r *run, outcome string) {
	c.metrics.FlowFinished(string(r.sub.Topic), outcome)
	c.logger.Debug("submission flow finished",
		zap.String("token", r.sub.Token),
		zap.String("outcome", outcome))
}

func (c *Controller) unregister(r *run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byToken, r.sub.Token)
	if c.byKey[r.sub.key()] == r {
		delete(c.byKey, r.sub.key())
	}
}

// HandleChoice routes a press of the attach or skip button. It reports false
// when no flow with that token is waiting, the presser does not own it, or an
// earlier press was already accepted.
func (c *Controller) HandleChoice(token, userID string, attach bool) bool {
	c.mu.Lock()
	r, ok := c.byToken[token]
	c.mu.Unlock()
	if !ok || r.sub.UserID != userID || r.State() != AwaitingImageChoice {
		return false
	}
	if !r.chosen.CompareAndSwap(false, true) {
		return false
	}
	kind := EventSkip
	if attach {
		kind = EventAttach
	}
	if !r.deliver(Event{Kind: kind}) {
		r.chosen.Store(false)
		return false
	}
	return true
}

// HandleMessage offers a channel message to the flows of its author that
// wait for an upload in that channel. Only the first attachment is used.
func (c *Controller) HandleMessage(channelID, userID, messageID string, attachments []*discordgo.MessageAttachment) bool {
	if len(attachments) == 0 || attachments[0] == nil {
		return false
	}
	ev := Event{Kind: EventImageUploaded, ImageURL: attachments[0].URL, MessageID: messageID}

	c.mu.Lock()
	var targets []*run
	for _, r := range c.byToken {
		if r.sub.UserID == userID && r.sub.ChannelID == channelID && r.State() == AwaitingImageUpload {
			targets = append(targets, r)
		}
	}
	c.mu.Unlock()

	handled := false
	for _, r := range targets {
		if r.deliver(ev) {
			handled = true
		}
	}
	return handled
}

// State returns the state of the flow with token.
func (c *Controller) State(token string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.byToken[token]
	if !ok {
		return 0, false
	}
	return r.State(), true
}

// Active counts the flows still waiting for input.
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byToken)
}

// Close abandons every pending flow and waits for their goroutines. Records
// already persisted stay without image and are not published.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}

// ChoiceButtonID is the custom ID of the attach or skip button of token.
func ChoiceButtonID(token string, attach bool) string {
	if attach {
		return fmt.Sprintf("%s%s:attach", model.FlowButtonPrefix, token)
	}
	return fmt.Sprintf("%s%s:skip", model.FlowButtonPrefix, token)
}

// ParseChoiceButtonID splits a choice button custom ID.
func ParseChoiceButtonID(customID string) (token string, attach bool, ok bool) {
	rest, found := strings.CutPrefix(customID, model.FlowButtonPrefix)
	if !found {
		return "", false, false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return "", false, false
	}
	switch rest[i+1:] {
	case "attach":
		return rest[:i], true, true
	case "skip":
		return rest[:i], false, true
	}
	return "", false, false
}
