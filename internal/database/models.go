package database

import "time"

// Message is one stored group-chat message. Rows are append-only: they are
// never mutated after insert and are only removed by retention pruning.
type Message struct {
	ID        uint      `db:"id"`
	ChatID    int64     `db:"chat_id"`
	Username  string    `db:"username"`
	Text      string    `db:"text"`
	Timestamp time.Time `db:"timestamp"`
}

// RegisteredChat marks a chat as eligible for the scheduled summary broadcast.
type RegisteredChat struct {
	ChatID int64 `db:"chat_id"`
}

// Setting is one row of the key/value settings table. It backs mutable
// runtime configuration such as the active summary prompt template.
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
