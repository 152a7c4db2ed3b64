package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access operations used by the handlers and tasks.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts one message row. The timestamp is normalized to
	// UTC before persistence.
	SaveMessage(ctx context.Context, message *Message) error

	// GetMessagesSince returns the messages of one chat with timestamp >=
	// since, ordered ascending by time. An empty slice, not an error, when
	// nothing qualifies.
	GetMessagesSince(ctx context.Context, chatID int64, since time.Time) ([]Message, error)

	// RegisterChat records a chat as a broadcast target. Idempotent.
	RegisterChat(ctx context.Context, chatID int64) error

	// UnregisterChat removes a chat from the broadcast targets.
	UnregisterChat(ctx context.Context, chatID int64) error

	// GetRegisteredChats returns the chat IDs eligible for the scheduled
	// summary broadcast.
	GetRegisteredChats(ctx context.Context) ([]int64, error)

	// GetSetting returns the value for key, or "" when the key is absent.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting upserts one key/value pair.
	SetSetting(ctx context.Context, key, value string) error

	// DeleteMessagesBefore removes messages older than cutoff and returns
	// the number of deleted rows.
	DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance performs database maintenance (VACUUM).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}

	message.Timestamp = message.Timestamp.UTC()

	query := `
        INSERT INTO messages (chat_id, username, text, timestamp)
        VALUES (:chat_id, :username, :text, :timestamp);
    `

	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "chat_id", message.ChatID, "error", err)
		return fmt.Errorf("failed to save message for chat %d: %w", message.ChatID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		message.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"chat_id", message.ChatID, "error", err)
	}

	s.logger.DebugContext(ctx, "Message saved", "chat_id", message.ChatID, "message_id", message.ID)
	return nil
}

func (s *sqlxStore) GetMessagesSince(ctx context.Context, chatID int64, since time.Time) ([]Message, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	messages := []Message{}
	query := `
        SELECT id, chat_id, username, text, timestamp
        FROM messages
        WHERE chat_id = ? AND timestamp >= ?
        ORDER BY timestamp ASC, id ASC;
    `

	err := s.db.SelectContext(ctx, &messages, query, chatID, since.UTC())
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages",
			"chat_id", chatID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting messages", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get messages for chat %d: %w", chatID, err)
	}

	s.logger.DebugContext(ctx, "Fetched messages", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

func (s *sqlxStore) RegisterChat(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}

	query := `INSERT OR IGNORE INTO registered_chats (chat_id) VALUES (?);`
	result, err := s.db.ExecContext(ctx, query, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error registering chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to register chat %d: %w", chatID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 1 {
		s.logger.InfoContext(ctx, "Chat registered", "chat_id", chatID)
	}
	return nil
}

func (s *sqlxStore) UnregisterChat(ctx context.Context, chatID int64) error {
	query := `DELETE FROM registered_chats WHERE chat_id = ?;`
	result, err := s.db.ExecContext(ctx, query, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error unregistering chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to unregister chat %d: %w", chatID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 1 {
		s.logger.InfoContext(ctx, "Chat unregistered", "chat_id", chatID)
	}
	return nil
}

func (s *sqlxStore) GetRegisteredChats(ctx context.Context) ([]int64, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	chatIDs := []int64{}
	err := s.db.SelectContext(ctx, &chatIDs, `SELECT chat_id FROM registered_chats;`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting registered chats", "error", err)
		return nil, fmt.Errorf("failed to get registered chats: %w", err)
	}

	return chatIDs, nil
}

func (s *sqlxStore) GetSetting(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("setting key cannot be empty")
	}

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?;`, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Absent keys are expected, not an error.
		return "", nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting setting", "key", key, "error", err)
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, nil
}

func (s *sqlxStore) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	query := `
        INSERT INTO settings (key, value) VALUES (?, ?)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value;
    `
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.logger.ErrorContext(ctx, "Error saving setting", "key", key, "error", err)
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}

	s.logger.DebugContext(ctx, "Setting saved", "key", key)
	return nil
}

func (s *sqlxStore) DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE timestamp < ?;`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning messages", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune messages before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	count, _ := result.RowsAffected()
	if count > 0 {
		s.logger.InfoContext(ctx, "Pruned old messages", "count", count, "cutoff", cutoff)
	}
	return count, nil
}

// RunMaintenance executes VACUUM. SQLite requires it to run outside a
// transaction.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context done before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed.")
	return nil
}
