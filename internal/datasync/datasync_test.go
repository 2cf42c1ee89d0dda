package datasync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/wordlog/internal/connectivity"
	mock_word "github.com/at-ishikawa/wordlog/internal/mocks/word"
	"github.com/at-ishikawa/wordlog/internal/offline"
	"github.com/at-ishikawa/wordlog/internal/word"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	wordRepo     *mock_word.MockWordRepository
	categoryRepo *mock_word.MockCategoryRepository
	store        *offline.MemoryStore
	queue        *offline.Queue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := offline.NewMemoryStore()
	return &fixture{
		wordRepo:     mock_word.NewMockWordRepository(ctrl),
		categoryRepo: mock_word.NewMockCategoryRepository(ctrl),
		store:        store,
		queue:        offline.NewQueue(store),
	}
}

func (f *fixture) syncer(online bool) *Syncer {
	s := NewSyncer(f.wordRepo, f.categoryRepo, f.queue, connectivity.Fixed(online))
	s.now = func() time.Time { return fixedNow }
	return s
}

func (f *fixture) enqueue(t *testing.T, texts ...string) {
	t.Helper()
	for _, text := range texts {
		require.NoError(t, f.queue.Enqueue(context.Background(), offline.PendingWord{Text: text, CreatedAt: fixedNow}))
	}
}

func (f *fixture) pending(t *testing.T) []offline.PendingWord {
	t.Helper()
	got, err := f.queue.ListAll(context.Background())
	require.NoError(t, err)
	return got
}

func TestSyncer_SaveWord(t *testing.T) {
	tests := []struct {
		name        string
		online      bool
		text        string
		memo        string
		setup       func(wordRepo *mock_word.MockWordRepository)
		want        *SaveResult
		wantPending []offline.PendingWord
		wantErrIs   error
		wantErr     bool
	}{
		{
			name:      "blank text",
			online:    true,
			text:      "   ",
			wantErrIs: ErrEmptyText,
		},
		{
			name:   "offline queues without touching the record store",
			online: false,
			text:   "  serendipity ",
			memo:   " from a novel ",
			want: &SaveResult{
				Status:  SaveStatusQueued,
				Pending: &offline.PendingWord{Text: "serendipity", Memo: word.OptionalString("from a novel"), CreatedAt: fixedNow},
			},
			wantPending: []offline.PendingWord{
				{Text: "serendipity", Memo: word.OptionalString("from a novel"), CreatedAt: fixedNow},
			},
		},
		{
			name:   "online inserts without touching the queue",
			online: true,
			text:   "serendipity",
			memo:   "  ",
			setup: func(wordRepo *mock_word.MockWordRepository) {
				wordRepo.EXPECT().
					Create(gomock.Any(), &word.Word{Text: "serendipity"}).
					DoAndReturn(func(_ context.Context, w *word.Word) error {
						w.ID = "w1"
						w.CreatedAt = fixedNow
						return nil
					})
			},
			want: &SaveResult{
				Status: SaveStatusSaved,
				Word:   &word.Word{ID: "w1", Text: "serendipity", CreatedAt: fixedNow},
			},
			wantPending: []offline.PendingWord{},
		},
		{
			name:   "online insert failure is not queued",
			online: true,
			text:   "serendipity",
			setup: func(wordRepo *mock_word.MockWordRepository) {
				wordRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantErr:     true,
			wantPending: []offline.PendingWord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f.wordRepo)
			}

			got, err := f.syncer(tt.online).SaveWord(context.Background(), tt.text, tt.memo)
			switch {
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, err, tt.wantErrIs)
			case tt.wantErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			if tt.wantPending != nil {
				assert.Equal(t, tt.wantPending, f.pending(t))
			}
		})
	}
}

func TestSyncer_Drain(t *testing.T) {
	tests := []struct {
		name        string
		queued      []string
		failTexts   map[string]bool
		want        *DrainResult
		wantErr     bool
		wantPending int
	}{
		{
			name:        "empty queue",
			want:        &DrainResult{},
			wantPending: 0,
		},
		{
			name:        "all inserts succeed and the queue is cleared",
			queued:      []string{"a", "b", "c"},
			want:        &DrainResult{Pending: 3, Inserted: 3, Cleared: true},
			wantPending: 0,
		},
		{
			name:        "one failure keeps the whole queue and still attempts every entry",
			queued:      []string{"a", "b", "c"},
			failTexts:   map[string]bool{"b": true},
			want:        &DrainResult{Pending: 3, Inserted: 2, Failed: 1},
			wantErr:     true,
			wantPending: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.enqueue(t, tt.queued...)

			var inserted []string
			f.wordRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, w *word.Word) error {
					inserted = append(inserted, w.Text)
					if tt.failTexts[w.Text] {
						return errors.New("insert failed")
					}
					return nil
				}).
				Times(len(tt.queued))

			got, err := f.syncer(true).Drain(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			if len(tt.queued) > 0 {
				assert.Equal(t, tt.queued, inserted)
			}
			assert.Len(t, f.pending(t), tt.wantPending)
		})
	}
}

func TestSyncer_Drain_UnreadableQueue(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(context.Background(), offline.PendingWordsKey, []byte("not json")))

	got, err := f.syncer(true).Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DrainResult{}, got)
}

func TestSyncer_Refresh(t *testing.T) {
	words := []word.Word{{ID: "w1", Text: "serendipity", CreatedAt: fixedNow}}
	categories := []word.Category{{ID: "c1", Name: "Food"}}

	tests := []struct {
		name         string
		online       bool
		queued       []string
		opts         RefreshOptions
		setup        func(f *fixture)
		wantDrain    *DrainResult
		wantDrainErr bool
		wantPending  int
		wantErr      bool
	}{
		{
			name:   "online drains before reading",
			online: true,
			queued: []string{"a"},
			setup: func(f *fixture) {
				gomock.InOrder(
					f.wordRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
					f.wordRepo.EXPECT().Find(gomock.Any(), word.Filter{}).Return(words, nil),
				)
				f.categoryRepo.EXPECT().FindAll(gomock.Any()).Return(categories, nil)
				f.wordRepo.EXPECT().CountUncategorized(gomock.Any()).Return(1, nil)
			},
			wantDrain:   &DrainResult{Pending: 1, Inserted: 1, Cleared: true},
			wantPending: 0,
		},
		{
			name:   "offline skips the drain and still reads",
			online: false,
			queued: []string{"a"},
			opts:   RefreshOptions{CategoryID: "c1"},
			setup: func(f *fixture) {
				f.wordRepo.EXPECT().Find(gomock.Any(), word.Filter{CategoryID: "c1"}).Return(words, nil)
				f.categoryRepo.EXPECT().FindAll(gomock.Any()).Return(categories, nil)
				f.wordRepo.EXPECT().CountUncategorized(gomock.Any()).Return(1, nil)
			},
			wantPending: 1,
		},
		{
			name:   "drain failure is reported and the refresh continues",
			online: true,
			queued: []string{"a"},
			setup: func(f *fixture) {
				f.wordRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
				f.wordRepo.EXPECT().Find(gomock.Any(), word.Filter{}).Return(words, nil)
				f.categoryRepo.EXPECT().FindAll(gomock.Any()).Return(categories, nil)
				f.wordRepo.EXPECT().CountUncategorized(gomock.Any()).Return(1, nil)
			},
			wantDrain:    &DrainResult{Pending: 1, Failed: 1},
			wantDrainErr: true,
			wantPending:  1,
		},
		{
			name:   "record store read failure",
			online: false,
			setup: func(f *fixture) {
				f.wordRepo.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.enqueue(t, tt.queued...)
			tt.setup(f)

			got, err := f.syncer(tt.online).Refresh(context.Background(), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.online, got.Online)
			assert.Equal(t, tt.wantDrain, got.Drain)
			assert.Equal(t, tt.wantDrainErr, got.DrainErr != nil)
			assert.Equal(t, words, got.Words)
			assert.Equal(t, categories, got.Categories)
			assert.Equal(t, 1, got.UncategorizedCount)
			assert.Len(t, f.pending(t), tt.wantPending)
		})
	}
}

func TestExporter_ExportAndYAMLSink(t *testing.T) {
	f := newFixture(t)
	words := []word.Word{{ID: "w1", Text: "serendipity", Memo: word.OptionalString("novel"), CreatedAt: fixedNow}}
	categories := []word.Category{{ID: "c1", Name: "Food", CreatedAt: fixedNow}}
	f.wordRepo.EXPECT().Find(gomock.Any(), word.Filter{}).Return(words, nil)
	f.categoryRepo.EXPECT().FindAll(gomock.Any()).Return(categories, nil)

	data, err := NewExporter(f.wordRepo, f.categoryRepo).Export(context.Background())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, NewYAMLSink(dir).WriteAll(data))

	raw, err := os.ReadFile(filepath.Join(dir, "words.yml"))
	require.NoError(t, err)
	var gotWords []word.Word
	require.NoError(t, yaml.Unmarshal(raw, &gotWords))
	assert.Equal(t, words, gotWords)

	raw, err = os.ReadFile(filepath.Join(dir, "categories.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "name: Food")
}
