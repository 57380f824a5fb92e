package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"werkstatt-bot/model"
)

// CreateAbsence inserts an active absence and returns its ID.
func (s *Store) CreateAbsence(ctx context.Context, a *model.AbsenceRecord) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	a.Active = true

	query := `INSERT INTO abmeldungen (user_id, username, grund, von, bis, erstellt_am, aktiv)
			  VALUES (:user_id, :username, :grund, :von, :bis, :erstellt_am, :aktiv)`
	result, err := s.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return 0, fmt.Errorf("failed to insert absence: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	a.ID = id
	return id, nil
}

// GetAbsence returns the absence with the given ID, active or not.
func (s *Store) GetAbsence(ctx context.Context, id int64) (*model.AbsenceRecord, error) {
	var a model.AbsenceRecord
	err := s.db.GetContext(ctx, &a, "SELECT * FROM abmeldungen WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("absence %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get absence %d: %w", id, err)
	}
	return &a, nil
}

// ActiveAbsences returns every active absence ordered by start date, the
// order the panel lists them in.
func (s *Store) ActiveAbsences(ctx context.Context) ([]model.AbsenceRecord, error) {
	var records []model.AbsenceRecord
	err := s.db.SelectContext(ctx, &records, "SELECT * FROM abmeldungen WHERE aktiv = 1 ORDER BY von ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get active absences: %w", err)
	}
	return records, nil
}

// ListActiveAbsences returns up to limit active absences, newest first. An
// empty userID lists all users.
func (s *Store) ListActiveAbsences(ctx context.Context, userID string, limit int) ([]model.AbsenceRecord, error) {
	var records []model.AbsenceRecord
	query := "SELECT * FROM abmeldungen WHERE aktiv = 1"
	args := []interface{}{}
	if userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY erstellt_am DESC, id DESC LIMIT ?"
	args = append(args, limit)

	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	return records, nil
}

// LatestActiveAbsence returns the most recently created active absence of a user.
func (s *Store) LatestActiveAbsence(ctx context.Context, userID string) (*model.AbsenceRecord, error) {
	var a model.AbsenceRecord
	query := "SELECT * FROM abmeldungen WHERE user_id = ? AND aktiv = 1 ORDER BY erstellt_am DESC, id DESC LIMIT 1"
	err := s.db.GetContext(ctx, &a, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active absence of user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest absence of user %s: %w", userID, err)
	}
	return &a, nil
}

// DeactivateAbsence marks one absence inactive. Rows are never deleted.
func (s *Store) DeactivateAbsence(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE abmeldungen SET aktiv = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate absence %d: %w", id, err)
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("absence %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeactivateAbsencesEndingBefore deactivates every active absence whose end
// date lies strictly before cutoff and returns how many changed.
func (s *Store) DeactivateAbsencesEndingBefore(ctx context.Context, cutoff model.Date) (int64, error) {
	result, err := s.db.ExecContext(ctx, "UPDATE abmeldungen SET aktiv = 0 WHERE aktiv = 1 AND bis < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired absences: %w", err)
	}
	return rowsAffected(result)
}

// CountActiveAbsences counts a user's active absences.
func (s *Store) CountActiveAbsences(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM abmeldungen WHERE user_id = ? AND aktiv = 1", userID); err != nil {
		return 0, fmt.Errorf("failed to count absences of user %s: %w", userID, err)
	}
	return n, nil
}
