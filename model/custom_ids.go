package model

import "strings"

// Component and modal custom IDs. The absence IDs match the ones stored in
// panels that are already posted, so they must not change.
const (
	AbsenceButtonID    = "abmelden_button"
	EndAbsenceButtonID = "abmeldung_beenden_button"
	AbsenceModalID     = "abmeldung_modal"

	DocumentationButtonPrefix = "doku_button:"
	DocumentationModalPrefix  = "doku_modal:"
	FlowButtonPrefix          = "flow:"
)

// DocumentationButtonID is the panel button that opens the modal of topic.
func DocumentationButtonID(t Topic) string { return DocumentationButtonPrefix + string(t) }

// DocumentationModalID is the modal custom ID of topic.
func DocumentationModalID(t Topic) string { return DocumentationModalPrefix + string(t) }

// TopicFromCustomID extracts the topic after prefix.
func TopicFromCustomID(customID, prefix string) (Topic, bool) {
	if !strings.HasPrefix(customID, prefix) {
		return "", false
	}
	t, ok := ParseTopic(strings.TrimPrefix(customID, prefix))
	if !ok || !t.IsDocumentation() {
		return "", false
	}
	return t, true
}
