package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/state"
)

// SessionRepository persists session state snapshots. Loading flags are
// runtime-only and are not stored; a loaded state always starts idle.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new empty session and returns its ID.
func (r *SessionRepository) Create() (string, error) {
	id := uuid.New().String()
	now := time.Now()

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, active_view, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, id, string(state.ViewChat), now, now)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return id, nil
}

// Load retrieves a session state by ID. Returns (zero, false, nil) when the
// session does not exist.
func (r *SessionRepository) Load(id string) (state.State, bool, error) {
	var (
		docName    sql.NullString
		docDataURI sql.NullString
		docText    sql.NullString
		activeView string
		summary    sql.NullString
		quizJSON   sql.NullString
	)

	err := r.db.QueryRow(`
		SELECT doc_name, doc_data_uri, doc_text, active_view, summary, quiz_json
		FROM sessions WHERE id = ?
	`, id).Scan(&docName, &docDataURI, &docText, &activeView, &summary, &quizJSON)

	if err == sql.ErrNoRows {
		return state.State{}, false, nil
	}
	if err != nil {
		return state.State{}, false, fmt.Errorf("load session: %w", err)
	}

	s := state.New()
	s.View = state.View(activeView)
	if docDataURI.Valid && docDataURI.String != "" {
		s.Document = &domain.Document{
			Name:    docName.String,
			DataURI: docDataURI.String,
			Text:    docText.String,
		}
	}
	if summary.Valid {
		s.Summary = summary.String
	}
	if quizJSON.Valid && quizJSON.String != "" {
		var quiz domain.Quiz
		if err := json.Unmarshal([]byte(quizJSON.String), &quiz); err != nil {
			return state.State{}, false, fmt.Errorf("decode quiz: %w", err)
		}
		s.Quiz = &quiz
	}

	messages, err := r.loadMessages(id)
	if err != nil {
		return state.State{}, false, err
	}
	s.Chat = messages

	return s, true, nil
}

// Save writes a session state snapshot. The transcript is rewritten in the
// same transaction so an ask rollback never leaves a stray row behind.
func (r *SessionRepository) Save(id string, s state.State) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var docName, docDataURI, docText any
	if s.Document != nil {
		docName = s.Document.Name
		docDataURI = s.Document.DataURI
		docText = s.Document.Text
	}

	var quizJSON any
	if s.Quiz != nil {
		b, err := json.Marshal(s.Quiz)
		if err != nil {
			return fmt.Errorf("encode quiz: %w", err)
		}
		quizJSON = string(b)
	}

	res, err := tx.Exec(`
		UPDATE sessions
		SET doc_name = ?, doc_data_uri = ?, doc_text = ?, active_view = ?,
			summary = ?, quiz_json = ?, updated_at = ?
		WHERE id = ?
	`, docName, docDataURI, docText, string(s.View), s.Summary, quizJSON, time.Now(), id)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	for i, msg := range s.Chat {
		_, err := tx.Exec(`
			INSERT INTO messages (id, session_id, position, role, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), id, i, msg.Role, msg.Content, time.Now())
		if err != nil {
			return fmt.Errorf("save message: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SessionRepository) loadMessages(sessionID string) ([]domain.ChatMessage, error) {
	rows, err := r.db.Query(`
		SELECT role, content
		FROM messages WHERE session_id = ?
		ORDER BY position ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
