// Package flow runs the interactive documentation submission: the record is
// stored first, then the user may attach one image within a time window
// before the finished documentation is published.
package flow

// State is the position of a submission in its flow.
type State int32

const (
	AwaitingForm State = iota
	RecordPersisted
	AwaitingImageChoice
	AwaitingImageUpload
	Finalizing
	Published
)

func (s State) String() string {
	switch s {
	case AwaitingForm:
		return "awaiting_form"
	case RecordPersisted:
		return "record_persisted"
	case AwaitingImageChoice:
		return "awaiting_image_choice"
	case AwaitingImageUpload:
		return "awaiting_image_upload"
	case Finalizing:
		return "finalizing"
	case Published:
		return "published"
	default:
		return "unknown"
	}
}

// EventKind is what happened to a submission.
type EventKind int

const (
	EventSubmitted EventKind = iota
	EventPersisted
	EventAttach
	EventSkip
	EventWindowExpired
	EventImageUploaded
	EventSuperseded
	EventFinalized
)

// Event is one input of the state machine. ImageURL and MessageID are set
// for EventImageUploaded.
type Event struct {
	Kind      EventKind
	ImageURL  string
	MessageID string
}

// ActionKind is a side effect requested by a transition.
type ActionKind int

const (
	ActionPersist ActionKind = iota
	ActionPromptChoice
	ActionPromptUpload
	ActionArmWindow
	ActionDisarmWindow
	ActionAttachImage
	ActionDeleteUpload
	ActionPublish
)

// Action is a side effect to run after a transition, in order.
type Action struct {
	Kind      ActionKind
	ImageURL  string
	MessageID string
}

// Transition is the pure transition function of a submission. Events that
// do not apply to state leave it unchanged and request nothing, which makes
// every window first-writer-wins.
func Transition(state State, ev Event) (State, []Action) {
	switch state {
	case AwaitingForm:
		if ev.Kind == EventSubmitted {
			return RecordPersisted, []Action{{Kind: ActionPersist}}
		}

	case RecordPersisted:
		if ev.Kind == EventPersisted {
			return AwaitingImageChoice, []Action{{Kind: ActionPromptChoice}, {Kind: ActionArmWindow}}
		}

	case AwaitingImageChoice:
		switch ev.Kind {
		case EventAttach:
			return AwaitingImageUpload, []Action{{Kind: ActionDisarmWindow}, {Kind: ActionPromptUpload}, {Kind: ActionArmWindow}}
		case EventSkip, EventWindowExpired, EventSuperseded:
			return Finalizing, []Action{{Kind: ActionDisarmWindow}, {Kind: ActionPublish}}
		}

	case AwaitingImageUpload:
		switch ev.Kind {
		case EventImageUploaded:
			return Finalizing, []Action{
				{Kind: ActionDisarmWindow},
				{Kind: ActionAttachImage, ImageURL: ev.ImageURL},
				{Kind: ActionDeleteUpload, MessageID: ev.MessageID},
				{Kind: ActionPublish},
			}
		case EventWindowExpired, EventSuperseded:
			return Finalizing, []Action{{Kind: ActionDisarmWindow}, {Kind: ActionPublish}}
		}

	case Finalizing:
		if ev.Kind == EventFinalized {
			return Published, nil
		}
	}
	return state, nil
}
