package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// PendingWordsKey is the key holding the pending word list.
const PendingWordsKey = "offline_words"

// PendingWord is a word saved while offline, waiting to be inserted into the record store.
type PendingWord struct {
	Text      string    `json:"text"`
	Memo      *string   `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
}

// StorageError reports that the local persistence layer could not be read or written.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("offline storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Queue is an ordered list of pending words stored as one JSON array under PendingWordsKey.
// It does no locking; callers run one flow at a time.
type Queue struct {
	store KeyValueStore
}

func NewQueue(store KeyValueStore) *Queue {
	return &Queue{store: store}
}

// Enqueue appends w after every existing entry.
// Stored content that cannot be decoded is left untouched and reported as a StorageError.
func (q *Queue) Enqueue(ctx context.Context, w PendingWord) error {
	raw, err := q.store.Get(ctx, PendingWordsKey)
	if err != nil {
		return &StorageError{Op: "read", Err: err}
	}
	words, err := decodePendingWords(raw)
	if err != nil {
		return &StorageError{Op: "decode", Err: err}
	}

	data, err := json.Marshal(append(words, w))
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := q.store.Set(ctx, PendingWordsKey, data); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// ListAll returns the pending words in insertion order.
// Unreadable stored content yields an empty list.
func (q *Queue) ListAll(ctx context.Context) ([]PendingWord, error) {
	raw, err := q.store.Get(ctx, PendingWordsKey)
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}
	words, err := decodePendingWords(raw)
	if err != nil {
		slog.Default().Warn("ignoring unreadable offline queue",
			"key", PendingWordsKey,
			"error", err,
		)
		return []PendingWord{}, nil
	}
	return words, nil
}

// Clear removes the whole list in a single delete.
func (q *Queue) Clear(ctx context.Context) error {
	if err := q.store.Delete(ctx, PendingWordsKey); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

func decodePendingWords(raw []byte) ([]PendingWord, error) {
	words := []PendingWord{}
	if len(raw) == 0 {
		return words, nil
	}
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if words == nil {
		words = []PendingWord{}
	}
	return words, nil
}
