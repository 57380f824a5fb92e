package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"werkstatt-bot/model"
)

// Column sets differ per topic: only chip tuning stores a description and
// only xenon stores a color.
var tuningColumns = map[model.Topic][]string{
	model.TopicTuningChip: {"name", "kennzeichen", "beschreibung", "bild_url", "erstellt_von", "erstellt_von_name", "erstellt_am"},
	model.TopicStance:     {"name", "kennzeichen", "bild_url", "erstellt_von", "erstellt_von_name", "erstellt_am"},
	model.TopicXenon:      {"name", "kennzeichen", "farbe", "bild_url", "erstellt_von", "erstellt_von_name", "erstellt_am"},
}

func tuningTable(topic model.Topic) (string, []string, error) {
	cols, ok := tuningColumns[topic]
	if !ok {
		return "", nil, fmt.Errorf("topic %q has no documentation table", topic)
	}
	// the topic values double as table names
	return string(topic), cols, nil
}

// CreateTuningDocumentation inserts a documentation row into the table of
// d.Topic. ImageURL may be nil and patched later with SetTuningImage.
func (s *Store) CreateTuningDocumentation(ctx context.Context, d *model.TuningDocumentation) (int64, error) {
	table, cols, err := tuningTable(d.Topic)
	if err != nil {
		return 0, err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}
	d.Plate = model.NormalizePlate(d.Plate)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)", table, strings.Join(cols, ", "), strings.Join(cols, ", :"))
	result, err := s.db.NamedExecContext(ctx, query, d)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s documentation: %w", table, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.ID = id
	return id, nil
}

// GetTuningDocumentation loads one documentation row.
func (s *Store) GetTuningDocumentation(ctx context.Context, topic model.Topic, id int64) (*model.TuningDocumentation, error) {
	table, _, err := tuningTable(topic)
	if err != nil {
		return nil, err
	}
	var d model.TuningDocumentation
	err = s.db.GetContext(ctx, &d, fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s documentation %d: %w", table, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s documentation %d: %w", table, id, err)
	}
	d.Topic = topic
	return &d, nil
}

// SetTuningImage patches the image URL of a documentation row. It is the only
// update a documentation row ever receives.
func (s *Store) SetTuningImage(ctx context.Context, topic model.Topic, id int64, url string) error {
	table, _, err := tuningTable(topic)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET bild_url = ? WHERE id = ?", table), url, id)
	if err != nil {
		return fmt.Errorf("failed to set image of %s documentation %d: %w", table, id, err)
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s documentation %d: %w", table, id, ErrNotFound)
	}
	return nil
}

// CreateEigentuning inserts a write-once self-tuning record.
func (s *Store) CreateEigentuning(ctx context.Context, e *model.EigentuningRecord) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	query := `INSERT INTO eigentuning (erstellt_von, erstellt_von_name, rechnungssteller, einkaufspreis, rechnungshoehe, erstellt_am)
			  VALUES (:erstellt_von, :erstellt_von_name, :rechnungssteller, :einkaufspreis, :rechnungshoehe, :erstellt_am)`
	result, err := s.db.NamedExecContext(ctx, query, e)
	if err != nil {
		return 0, fmt.Errorf("failed to insert eigentuning: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	e.ID = id
	return id, nil
}
