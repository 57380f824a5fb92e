package model

import (
	"strings"
	"time"
)

// TuningDocumentation is one documented tuning job. Description is only used
// by chip tuning and Color only by xenon; the stance table has neither.
type TuningDocumentation struct {
	ID           int64     `db:"id"`
	Topic        Topic     `db:"-"`
	CustomerName string    `db:"name" validate:"required,max=100"`
	Plate        string    `db:"kennzeichen" validate:"required,max=8"`
	Description  string    `db:"beschreibung" validate:"required_if=Topic tuningchip,max=1000"`
	Color        string    `db:"farbe" validate:"required_if=Topic xenon,max=50"`
	ImageURL     *string   `db:"bild_url"`
	AuthorID     string    `db:"erstellt_von"`
	AuthorName   string    `db:"erstellt_von_name"`
	CreatedAt    time.Time `db:"erstellt_am"`
}

// NormalizePlate trims and upper-cases a licence plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// HasImage reports whether an image URL has been attached.
func (d TuningDocumentation) HasImage() bool {
	return d.ImageURL != nil && *d.ImageURL != ""
}

// EigentuningRecord documents a self-tuning job. Write-once.
type EigentuningRecord struct {
	ID            int64     `db:"id"`
	AuthorID      string    `db:"erstellt_von"`
	AuthorName    string    `db:"erstellt_von_name"`
	InvoiceIssuer string    `db:"rechnungssteller" validate:"required,max=100"`
	PurchasePrice int64     `db:"einkaufspreis" validate:"gte=0"`
	InvoiceAmount int64     `db:"rechnungshoehe" validate:"gte=0"`
	CreatedAt     time.Time `db:"erstellt_am"`
}

// PanelMessage records the live panel message of one (channel, topic) pair.
type PanelMessage struct {
	ID        int64  `db:"id"`
	ChannelID string `db:"channel_id"`
	MessageID string `db:"message_id"`
	Topic     Topic  `db:"typ"`
}
