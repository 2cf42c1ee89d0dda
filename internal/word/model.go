// Package word provides the vocabulary domain models and the record store contract.
package word

import (
	"errors"
	"strings"
	"time"
)

// LearnedViewCount is the view count at which a word counts as learned and is deleted.
const LearnedViewCount = 5

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// Word represents a word or phrase being learned.
type Word struct {
	ID         string    `db:"id" json:"id" yaml:"id"`
	Text       string    `db:"text" json:"text" yaml:"text"`
	Memo       *string   `db:"memo" json:"memo" yaml:"memo,omitempty"`
	Summary    *string   `db:"summary" json:"summary" yaml:"summary,omitempty"`
	Detail     *string   `db:"detail" json:"detail" yaml:"detail,omitempty"`
	CategoryID *string   `db:"category_id" json:"category_id" yaml:"category_id,omitempty"`
	ViewCount  int       `db:"view_count" json:"view_count" yaml:"view_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}

func (w Word) MemoText() string {
	return deref(w.Memo)
}

func (w Word) SummaryText() string {
	return deref(w.Summary)
}

func (w Word) DetailText() string {
	return deref(w.Detail)
}

func (w Word) CategoryIDText() string {
	return deref(w.CategoryID)
}

func (w Word) IsCategorized() bool {
	return w.CategoryID != nil && *w.CategoryID != ""
}

// Category groups words under a unique display label.
type Category struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Name      string    `db:"name" json:"name" yaml:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}

// Filter narrows a word selection. Zero value selects every word.
type Filter struct {
	CategoryID    string
	Uncategorized bool
}

// Patch lists the fields of a word to update. Nil fields are left untouched.
type Patch struct {
	ViewCount  *int    `json:"view_count,omitempty"`
	Summary    *string `json:"summary,omitempty"`
	Detail     *string `json:"detail,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.ViewCount == nil && p.Summary == nil && p.Detail == nil && p.CategoryID == nil
}

// Columns returns the patch keyed by column name.
func (p Patch) Columns() map[string]any {
	columns := make(map[string]any)
	if p.ViewCount != nil {
		columns["view_count"] = *p.ViewCount
	}
	if p.Summary != nil {
		columns["summary"] = *p.Summary
	}
	if p.Detail != nil {
		columns["detail"] = *p.Detail
	}
	if p.CategoryID != nil {
		columns["category_id"] = *p.CategoryID
	}
	return columns
}

// OptionalString trims s and returns nil when nothing is left.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
