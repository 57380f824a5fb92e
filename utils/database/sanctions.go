package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"werkstatt-bot/model"
)

// CreateSanction inserts an active sanction and returns its ID. ExpiresAt is
// derived from the kind and the creation time.
func (s *Store) CreateSanction(ctx context.Context, sn *model.Sanction) (int64, error) {
	if sn.CreatedAt.IsZero() {
		sn.CreatedAt = s.now()
	}
	sn.ExpiresAt = sn.Kind.ExpiresAt(sn.CreatedAt)
	sn.Active = true

	query := `INSERT INTO sanktionen (user_id, username, typ, grund, geldstrafe, ausgestellt_von, ausgestellt_von_name, erstellt_am, ablauf_datum, aktiv)
			  VALUES (:user_id, :username, :typ, :grund, :geldstrafe, :ausgestellt_von, :ausgestellt_von_name, :erstellt_am, :ablauf_datum, :aktiv)`
	result, err := s.db.NamedExecContext(ctx, query, sn)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sanction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	sn.ID = id
	return id, nil
}

// GetSanction returns one sanction by ID.
func (s *Store) GetSanction(ctx context.Context, id int64) (*model.Sanction, error) {
	var sn model.Sanction
	err := s.db.GetContext(ctx, &sn, "SELECT * FROM sanktionen WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sanction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sanction %d: %w", id, err)
	}
	return &sn, nil
}

// ListSanctions returns up to limit sanctions, newest first. With a userID it
// lists all of that user's sanctions including lifted ones; without, only
// active sanctions of everybody.
func (s *Store) ListSanctions(ctx context.Context, userID string, limit int) ([]model.Sanction, error) {
	var records []model.Sanction
	var err error
	if userID != "" {
		err = s.db.SelectContext(ctx, &records,
			"SELECT * FROM sanktionen WHERE user_id = ? ORDER BY erstellt_am DESC, id DESC LIMIT ?", userID, limit)
	} else {
		err = s.db.SelectContext(ctx, &records,
			"SELECT * FROM sanktionen WHERE aktiv = 1 ORDER BY erstellt_am DESC, id DESC LIMIT ?", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sanctions: %w", err)
	}
	return records, nil
}

// DeactivateSanction lifts a sanction.
func (s *Store) DeactivateSanction(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE sanktionen SET aktiv = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate sanction %d: %w", id, err)
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sanction %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountSanctions returns the total and the active number of a user's sanctions.
func (s *Store) CountSanctions(ctx context.Context, userID string) (total, active int, err error) {
	var counts struct {
		Total  int           `db:"total"`
		Active sql.NullInt64 `db:"active"`
	}
	query := "SELECT COUNT(*) AS total, SUM(CASE WHEN aktiv = 1 THEN 1 ELSE 0 END) AS active FROM sanktionen WHERE user_id = ?"
	if err := s.db.GetContext(ctx, &counts, query, userID); err != nil {
		return 0, 0, fmt.Errorf("failed to count sanctions of user %s: %w", userID, err)
	}
	return counts.Total, int(counts.Active.Int64), nil
}
