package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"werkstatt-bot/model"
)

// GetPanelMessage returns the live panel row of (channelID, topic).
func (s *Store) GetPanelMessage(ctx context.Context, channelID string, topic model.Topic) (*model.PanelMessage, error) {
	var p model.PanelMessage
	query := "SELECT * FROM panel_messages WHERE channel_id = ? AND typ = ? ORDER BY id DESC LIMIT 1"
	err := s.db.GetContext(ctx, &p, query, channelID, topic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("panel %s in channel %s: %w", topic, channelID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get panel %s in channel %s: %w", topic, channelID, err)
	}
	return &p, nil
}

// InsertPanelMessage records a freshly published panel.
func (s *Store) InsertPanelMessage(ctx context.Context, p *model.PanelMessage) (int64, error) {
	query := "INSERT INTO panel_messages (channel_id, message_id, typ) VALUES (:channel_id, :message_id, :typ)"
	result, err := s.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return 0, fmt.Errorf("failed to insert panel message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	p.ID = id
	return id, nil
}

// DeletePanelMessage removes a panel row by ID. Deleting a missing row is not an error.
func (s *Store) DeletePanelMessage(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM panel_messages WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete panel message %d: %w", id, err)
	}
	return nil
}

// CountPanelMessages counts the rows of (channelID, topic).
func (s *Store) CountPanelMessages(ctx context.Context, channelID string, topic model.Topic) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM panel_messages WHERE channel_id = ? AND typ = ?", channelID, topic)
	if err != nil {
		return 0, fmt.Errorf("failed to count panel messages: %w", err)
	}
	return n, nil
}
