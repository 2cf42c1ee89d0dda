// Package categorize assigns uncategorized words to categories with one model call.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/wordlog/internal/inference"
	"github.com/at-ishikawa/wordlog/internal/word"
)

// ErrNothingToCategorize is returned when every word already has a category.
var ErrNothingToCategorize = errors.New("no uncategorized words")

// Assignment is a category applied to a word.
type Assignment struct {
	WordID     string
	Text       string
	CategoryID string
	Category   string
}

// Failure is a result that could not be applied.
// WordID is empty when the failure happened before a word was chosen.
type Failure struct {
	WordID   string
	Text     string
	Category string
	Err      error
}

// Report describes what one categorization pass did.
type Report struct {
	Results           []inference.CategorizeResult
	Assigned          []Assignment
	CreatedCategories []word.Category
	Unmatched         []inference.CategorizeResult
	Failures          []Failure
}

// Err joins every failure of the pass, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

type Categorizer struct {
	wordRepo     word.WordRepository
	categoryRepo word.CategoryRepository
	client       inference.Client
}

func NewCategorizer(wordRepo word.WordRepository, categoryRepo word.CategoryRepository, client inference.Client) *Categorizer {
	return &Categorizer{
		wordRepo:     wordRepo,
		categoryRepo: categoryRepo,
		client:       client,
	}
}

// Run categorizes every uncategorized word.
// Nothing is written when the model call fails. After that each result is applied independently.
func (c *Categorizer) Run(ctx context.Context) (*Report, error) {
	words, err := c.wordRepo.Find(ctx, word.Filter{Uncategorized: true})
	if err != nil {
		return nil, fmt.Errorf("wordRepo.Find(uncategorized) > %w", err)
	}
	if len(words) == 0 {
		return nil, ErrNothingToCategorize
	}
	categories, err := c.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.FindAll() > %w", err)
	}

	request := inference.CategorizeRequest{
		Words:              make([]inference.CategorizeWord, 0, len(words)),
		ExistingCategories: make([]string, 0, len(categories)),
	}
	for _, w := range words {
		request.Words = append(request.Words, inference.CategorizeWord{Text: w.Text, Memo: w.MemoText()})
	}
	for _, category := range categories {
		request.ExistingCategories = append(request.ExistingCategories, category.Name)
	}

	results, err := c.client.CategorizeBatch(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("client.CategorizeBatch() > %w", err)
	}

	report := Report{Results: results}
	registry := newRegistry(categories)
	for _, result := range results {
		c.apply(ctx, result, words, registry, &report)
	}

	slog.Default().Info("categorized words",
		"words", len(words),
		"results", len(results),
		"assigned", len(report.Assigned),
		"createdCategories", len(report.CreatedCategories),
		"unmatched", len(report.Unmatched),
		"failures", len(report.Failures),
	)
	return &report, nil
}

func (c *Categorizer) apply(ctx context.Context, result inference.CategorizeResult, words []word.Word, registry *registry, report *Report) {
	category, ok := registry.lookup(result.Category)
	if !ok {
		category = word.Category{Name: result.Category}
		if err := c.categoryRepo.Create(ctx, &category); err != nil {
			report.Failures = append(report.Failures, Failure{
				Text:     result.Text,
				Category: result.Category,
				Err:      fmt.Errorf("create category %q: %w", result.Category, err),
			})
			return
		}
		registry.add(category)
		report.CreatedCategories = append(report.CreatedCategories, category)
	}

	target := findByText(words, result.Text)
	if target == nil {
		report.Unmatched = append(report.Unmatched, result)
		return
	}

	categoryID := category.ID
	if err := c.wordRepo.Update(ctx, target.ID, word.Patch{CategoryID: &categoryID}); err != nil {
		report.Failures = append(report.Failures, Failure{
			WordID:   target.ID,
			Text:     target.Text,
			Category: category.Name,
			Err:      fmt.Errorf("assign word %s to category %q: %w", target.ID, category.Name, err),
		})
		return
	}
	report.Assigned = append(report.Assigned, Assignment{
		WordID:     target.ID,
		Text:       target.Text,
		CategoryID: category.ID,
		Category:   category.Name,
	})
}

// findByText returns the first word whose text equals text exactly.
func findByText(words []word.Word, text string) *word.Word {
	for i := range words {
		if words[i].Text == text {
			return &words[i]
		}
	}
	return nil
}

// registry maps category names to categories for the duration of one pass.
type registry struct {
	byName map[string]word.Category
}

func newRegistry(categories []word.Category) *registry {
	r := &registry{byName: make(map[string]word.Category, len(categories))}
	for _, category := range categories {
		r.add(category)
	}
	return r
}

func (r *registry) lookup(name string) (word.Category, bool) {
	category, ok := r.byName[name]
	return category, ok
}

func (r *registry) add(category word.Category) {
	if _, ok := r.byName[category.Name]; ok {
		return
	}
	r.byName[category.Name] = category
}
