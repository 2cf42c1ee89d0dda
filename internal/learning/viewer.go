// Package learning tracks how often a word has been viewed and generates its explanations.
package learning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/wordlog/internal/connectivity"
	"github.com/at-ishikawa/wordlog/internal/inference"
	"github.com/at-ishikawa/wordlog/internal/word"
)

// ViewResult is the outcome of viewing a word.
type ViewResult struct {
	// Word is the state after the view. When Learned is true it has already been deleted.
	Word    *word.Word
	Learned bool
	// SummaryGenerated is true when a missing summary was generated and saved during this view.
	SummaryGenerated bool
	// SummaryErr is set when a missing summary could not be generated. The view itself still counted.
	SummaryErr error
}

// Viewer runs the view lifecycle of a word.
type Viewer struct {
	wordRepo word.WordRepository
	client   inference.Client
	checker  connectivity.Checker
}

// NewViewer creates a new Viewer.
func NewViewer(wordRepo word.WordRepository, client inference.Client, checker connectivity.Checker) *Viewer {
	return &Viewer{
		wordRepo: wordRepo,
		client:   client,
		checker:  checker,
	}
}

// View counts one view of the word.
// The view that would bring the count to word.LearnedViewCount deletes the word instead of saving the count.
func (v *Viewer) View(ctx context.Context, id string) (*ViewResult, error) {
	w, err := v.wordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("wordRepo.FindByID() > %w", err)
	}

	newCount := w.ViewCount + 1
	if newCount >= word.LearnedViewCount {
		if err := v.wordRepo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("wordRepo.Delete() > %w", err)
		}
		slog.Default().Info("word learned", "id", id, "text", w.Text)
		return &ViewResult{Word: w, Learned: true}, nil
	}

	if err := v.wordRepo.Update(ctx, id, word.Patch{ViewCount: &newCount}); err != nil {
		return nil, fmt.Errorf("wordRepo.Update(view_count) > %w", err)
	}
	w.ViewCount = newCount

	result := ViewResult{Word: w}
	if w.SummaryText() == "" {
		if err := v.generateSummary(ctx, w); err != nil {
			slog.Default().Warn("summary generation failed", "id", id, "error", err)
			result.SummaryErr = err
		} else {
			result.SummaryGenerated = true
		}
	}
	return &result, nil
}

// RegenerateSummary generates and saves the summary again, replacing the stored one.
func (v *Viewer) RegenerateSummary(ctx context.Context, id string) (*word.Word, error) {
	w, err := v.wordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("wordRepo.FindByID() > %w", err)
	}
	if err := v.generateSummary(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GenerateDetail returns the stored detail, generating and saving it when missing or when regenerate is set.
func (v *Viewer) GenerateDetail(ctx context.Context, id string, regenerate bool) (*word.Word, error) {
	w, err := v.wordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("wordRepo.FindByID() > %w", err)
	}
	if w.DetailText() != "" && !regenerate {
		return w, nil
	}
	if !v.checker.IsConnected(ctx) {
		return nil, connectivity.ErrOffline
	}

	detail, err := v.client.Elaborate(ctx, inference.ExplainRequest{Text: w.Text, Memo: w.MemoText()})
	if err != nil {
		return nil, fmt.Errorf("client.Elaborate() > %w", err)
	}
	if err := v.wordRepo.Update(ctx, id, word.Patch{Detail: &detail}); err != nil {
		return nil, fmt.Errorf("wordRepo.Update(detail) > %w", err)
	}
	w.Detail = &detail
	return w, nil
}

// Delete removes the word regardless of its view count.
func (v *Viewer) Delete(ctx context.Context, id string) error {
	if err := v.wordRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("wordRepo.Delete() > %w", err)
	}
	return nil
}

func (v *Viewer) generateSummary(ctx context.Context, w *word.Word) error {
	if !v.checker.IsConnected(ctx) {
		return connectivity.ErrOffline
	}

	summary, err := v.client.Summarize(ctx, inference.ExplainRequest{Text: w.Text, Memo: w.MemoText()})
	if err != nil {
		return fmt.Errorf("client.Summarize() > %w", err)
	}
	if err := v.wordRepo.Update(ctx, w.ID, word.Patch{Summary: &summary}); err != nil {
		return fmt.Errorf("wordRepo.Update(summary) > %w", err)
	}
	w.Summary = &summary
	return nil
}
