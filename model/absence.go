package model

import "time"

// AbsenceRecord is one "Abmeldung" of a staff member.
type AbsenceRecord struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"username"`
	Reason      string    `db:"grund"`
	StartDate   Date      `db:"von"`
	EndDate     Date      `db:"bis"`
	CreatedAt   time.Time `db:"erstellt_am"`
	Active      bool      `db:"aktiv"`
}

// AbsenceStatus is how an active record is shown on the panel.
type AbsenceStatus int

const (
	AbsenceScheduled AbsenceStatus = iota
	AbsenceAway
)

// Status compares calendar days only: away while start <= today <= end.
func (a AbsenceRecord) Status(today Date) AbsenceStatus {
	if !a.StartDate.After(today) && !a.EndDate.Before(today) {
		return AbsenceAway
	}
	return AbsenceScheduled
}
