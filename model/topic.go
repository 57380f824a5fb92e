package model

// Topic identifies a panel type. The value is stored in panel_messages.typ.
type Topic string

const (
	TopicAbsence    Topic = "abmeldung"
	TopicTuningChip Topic = "tuningchip"
	TopicStance     Topic = "stance"
	TopicXenon      Topic = "xenon"
)

// Topics lists every panel topic in startup order.
var Topics = []Topic{TopicAbsence, TopicTuningChip, TopicStance, TopicXenon}

// DocumentationTopics are the topics backed by a tuning documentation table.
var DocumentationTopics = []Topic{TopicTuningChip, TopicStance, TopicXenon}

// ParseTopic returns the topic for s and whether it is known.
func ParseTopic(s string) (Topic, bool) {
	for _, t := range Topics {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// IsDocumentation reports whether t is a tuning documentation topic.
func (t Topic) IsDocumentation() bool {
	return t == TopicTuningChip || t == TopicStance || t == TopicXenon
}

// Label is the human readable name used in titles.
func (t Topic) Label() string {
	switch t {
	case TopicAbsence:
		return "Abmeldung"
	case TopicTuningChip:
		return "Tuningchip"
	case TopicStance:
		return "Stance-Tuning"
	case TopicXenon:
		return "Xenon-Scheinwerfer"
	default:
		return string(t)
	}
}
