// Package datasync saves words, drains the offline queue into the record store and reads list snapshots.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/wordlog/internal/connectivity"
	"github.com/at-ishikawa/wordlog/internal/offline"
	"github.com/at-ishikawa/wordlog/internal/word"
)

// ErrEmptyText is returned when a word is saved with blank text.
var ErrEmptyText = errors.New("word text is empty")

type SaveStatus string

const (
	SaveStatusSaved  SaveStatus = "saved"
	SaveStatusQueued SaveStatus = "queued"
)

// SaveResult reports where a saved word went.
// Word is set when it was inserted into the record store, Pending when it was queued.
type SaveResult struct {
	Status  SaveStatus
	Word    *word.Word
	Pending *offline.PendingWord
}

// DrainResult tracks counts for one drain of the offline queue.
type DrainResult struct {
	Pending  int
	Inserted int
	Failed   int
	Cleared  bool
}

// RefreshOptions controls which words a refresh returns.
type RefreshOptions struct {
	CategoryID string
}

// Snapshot is the state of the record store after a refresh.
type Snapshot struct {
	Online             bool
	Drain              *DrainResult
	DrainErr           error
	Words              []word.Word
	Categories         []word.Category
	UncategorizedCount int
}

// Syncer runs the save and reconciliation flows. Calls are not meant to run concurrently.
type Syncer struct {
	wordRepo     word.WordRepository
	categoryRepo word.CategoryRepository
	queue        *offline.Queue
	checker      connectivity.Checker
	now          func() time.Time
}

// NewSyncer creates a new Syncer.
func NewSyncer(wordRepo word.WordRepository, categoryRepo word.CategoryRepository, queue *offline.Queue, checker connectivity.Checker) *Syncer {
	return &Syncer{
		wordRepo:     wordRepo,
		categoryRepo: categoryRepo,
		queue:        queue,
		checker:      checker,
		now:          time.Now,
	}
}

// SaveWord inserts the word when online and queues it otherwise.
// A failed insert is returned as is; it is never queued instead.
func (s *Syncer) SaveWord(ctx context.Context, text, memo string) (*SaveResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	memoValue := word.OptionalString(memo)

	if !s.checker.IsConnected(ctx) {
		pending := offline.PendingWord{
			Text:      text,
			Memo:      memoValue,
			CreatedAt: s.now().UTC(),
		}
		if err := s.queue.Enqueue(ctx, pending); err != nil {
			return nil, fmt.Errorf("queue.Enqueue() > %w", err)
		}
		return &SaveResult{Status: SaveStatusQueued, Pending: &pending}, nil
	}

	w := word.Word{Text: text, Memo: memoValue}
	if err := s.wordRepo.Create(ctx, &w); err != nil {
		return nil, fmt.Errorf("wordRepo.Create() > %w", err)
	}
	return &SaveResult{Status: SaveStatusSaved, Word: &w}, nil
}

// Drain inserts every pending word in order and clears the queue only if all of them succeeded.
// When any insert fails the whole queue stays, so a later drain submits the successful ones again.
func (s *Syncer) Drain(ctx context.Context) (*DrainResult, error) {
	pending, err := s.queue.ListAll(ctx)
	if err != nil {
		slog.Default().Warn("cannot read offline queue, treating it as empty", "error", err)
		return &DrainResult{}, nil
	}

	result := DrainResult{Pending: len(pending)}
	if len(pending) == 0 {
		return &result, nil
	}

	var errs []error
	for _, p := range pending {
		w := word.Word{Text: p.Text, Memo: p.Memo}
		if err := s.wordRepo.Create(ctx, &w); err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("insert pending word %q: %w", p.Text, err))
			continue
		}
		result.Inserted++
	}
	if len(errs) > 0 {
		return &result, errors.Join(errs...)
	}

	if err := s.queue.Clear(ctx); err != nil {
		return &result, fmt.Errorf("queue.Clear() > %w", err)
	}
	result.Cleared = true
	slog.Default().Info("drained offline queue", "inserted", result.Inserted)
	return &result, nil
}

// Refresh drains the queue when online and then reads words, categories and the uncategorized count.
// A drain failure is reported in the snapshot and does not stop the refresh.
func (s *Syncer) Refresh(ctx context.Context, opts RefreshOptions) (*Snapshot, error) {
	snapshot := Snapshot{Online: s.checker.IsConnected(ctx)}
	if snapshot.Online {
		drain, err := s.Drain(ctx)
		snapshot.Drain = drain
		if err != nil {
			snapshot.DrainErr = err
			slog.Default().Warn("offline queue drain failed", "error", err)
		}
	}

	words, err := s.wordRepo.Find(ctx, word.Filter{CategoryID: opts.CategoryID})
	if err != nil {
		return nil, fmt.Errorf("wordRepo.Find() > %w", err)
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.FindAll() > %w", err)
	}
	count, err := s.wordRepo.CountUncategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("wordRepo.CountUncategorized() > %w", err)
	}

	snapshot.Words = words
	snapshot.Categories = categories
	snapshot.UncategorizedCount = count
	return &snapshot, nil
}

// Pending returns the words waiting in the offline queue.
func (s *Syncer) Pending(ctx context.Context) ([]offline.PendingWord, error) {
	pending, err := s.queue.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue.ListAll() > %w", err)
	}
	return pending, nil
}
