package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/wordlog/internal/word"
)

// FakeSupabase is an in-memory stand-in for the words and categories tables behind the REST API.
// It understands the filters the record store sends, nothing more.
type FakeSupabase struct {
	*httptest.Server

	mu         sync.Mutex
	words      []word.Word
	categories []word.Category
}

// NewFakeSupabase starts a server seeded with words and categories. It is closed with the test.
func NewFakeSupabase(t *testing.T, words []word.Word, categories []word.Category) *FakeSupabase {
	t.Helper()
	fake := &FakeSupabase{
		words:      slices.Clone(words),
		categories: slices.Clone(categories),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/words", fake.handleWords)
	mux.HandleFunc("/rest/v1/categories", fake.handleCategories)
	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Close)
	return fake
}

// Words returns a copy of the stored words.
func (f *FakeSupabase) Words() []word.Word {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.words)
}

func (f *FakeSupabase) handleWords(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := f.matchWords(r)
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, matched)
	case http.MethodHead:
		w.Header().Set("Content-Range", fmt.Sprintf("*/%d", len(matched)))
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		var body struct {
			Text string  `json:"text"`
			Memo *string `json:"memo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created := word.Word{
			ID:        uuid.NewString(),
			Text:      body.Text,
			Memo:      body.Memo,
			CreatedAt: time.Now().UTC(),
		}
		f.words = append(f.words, created)
		writeJSON(w, http.StatusCreated, []word.Word{created})
	case http.MethodPatch:
		var patch word.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i := range f.words {
			if !containsID(matched, f.words[i].ID) {
				continue
			}
			if patch.ViewCount != nil {
				f.words[i].ViewCount = *patch.ViewCount
			}
			if patch.Summary != nil {
				f.words[i].Summary = patch.Summary
			}
			if patch.Detail != nil {
				f.words[i].Detail = patch.Detail
			}
			if patch.CategoryID != nil {
				f.words[i].CategoryID = patch.CategoryID
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		f.words = slices.DeleteFunc(f.words, func(stored word.Word) bool {
			return containsID(matched, stored.ID)
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeSupabase) matchWords(r *http.Request) []word.Word {
	query := r.URL.Query()
	matched := make([]word.Word, 0, len(f.words))
	for _, stored := range f.words {
		if id := query.Get("id"); id != "" && "eq."+stored.ID != id {
			continue
		}
		switch categoryID := query.Get("category_id"); {
		case categoryID == "is.null" && stored.IsCategorized():
			continue
		case strings.HasPrefix(categoryID, "eq.") && "eq."+stored.CategoryIDText() != categoryID:
			continue
		}
		matched = append(matched, stored)
	}
	slices.SortStableFunc(matched, func(a, b word.Word) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return matched
}

func (f *FakeSupabase) handleCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		categories := slices.Clone(f.categories)
		slices.SortFunc(categories, func(a, b word.Category) int {
			return strings.Compare(a.Name, b.Name)
		})
		writeJSON(w, http.StatusOK, categories)
	case http.MethodPost:
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, existing := range f.categories {
			if existing.Name == body.Name {
				http.Error(w, `{"code":"23505"}`, http.StatusConflict)
				return
			}
		}
		created := word.Category{ID: uuid.NewString(), Name: body.Name, CreatedAt: time.Now().UTC()}
		f.categories = append(f.categories, created)
		writeJSON(w, http.StatusCreated, []word.Category{created})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func containsID(words []word.Word, id string) bool {
	return slices.ContainsFunc(words, func(w word.Word) bool {
		return w.ID == id
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
