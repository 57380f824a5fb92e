package model

import "time"

// SanctionKind is the enumerated sanction type. The values are the labels
// shown to users and stored in sanktionen.typ.
type SanctionKind string

const (
	SanctionWarn1              SanctionKind = "Warn 1"
	SanctionWarn2              SanctionKind = "Warn 2"
	SanctionSuspension1Day     SanctionKind = "Suspendierung 1 Tag"
	SanctionSuspension2Days    SanctionKind = "Suspendierung 2 Tage"
	SanctionDemotion           SanctionKind = "Degradierung"
	SanctionDemotionSuspension SanctionKind = "Degradierung + 1 Tag Suspendierung"
	SanctionTermination        SanctionKind = "Kuendigung"
)

// SanctionKinds lists the kinds in the order they are offered as choices.
var SanctionKinds = []SanctionKind{
	SanctionWarn1,
	SanctionWarn2,
	SanctionSuspension1Day,
	SanctionSuspension2Days,
	SanctionDemotion,
	SanctionDemotionSuspension,
	SanctionTermination,
}

// Valid reports whether k is one of the known kinds.
func (k SanctionKind) Valid() bool {
	for _, known := range SanctionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ExpiresAt returns the end of the suspension for suspension kinds and nil
// otherwise. The value is informational: nothing lifts a sanction automatically.
func (k SanctionKind) ExpiresAt(issued time.Time) *time.Time {
	var days int
	switch k {
	case SanctionSuspension1Day, SanctionDemotionSuspension:
		days = 1
	case SanctionSuspension2Days:
		days = 2
	default:
		return nil
	}
	t := issued.AddDate(0, 0, days)
	return &t
}

// Sanction is a disciplinary measure issued to a staff member.
type Sanction struct {
	ID          int64        `db:"id"`
	UserID      string       `db:"user_id"`
	DisplayName string       `db:"username"`
	Kind        SanctionKind `db:"typ"`
	Reason      string       `db:"grund"`
	Fine        int64        `db:"geldstrafe"`
	IssuerID    string       `db:"ausgestellt_von"`
	IssuerName  string       `db:"ausgestellt_von_name"`
	CreatedAt   time.Time    `db:"erstellt_am"`
	ExpiresAt   *time.Time   `db:"ablauf_datum"`
	Active      bool         `db:"aktiv"`
}
