// Package cli renders the application flows to a terminal and runs the interactive review session.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/wordlog/internal/categorize"
	"github.com/at-ishikawa/wordlog/internal/connectivity"
	"github.com/at-ishikawa/wordlog/internal/datasync"
	"github.com/at-ishikawa/wordlog/internal/inference"
	"github.com/at-ishikawa/wordlog/internal/learning"
	"github.com/at-ishikawa/wordlog/internal/offline"
	"github.com/at-ishikawa/wordlog/internal/word"
)

const timeLayout = "2006-01-02 15:04"

// Printer writes human readable output.
type Printer struct {
	writer io.Writer
	bold   *color.Color
	italic *color.Color
	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

func NewPrinter(writer io.Writer) *Printer {
	return &Printer{
		writer: writer,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}
}

func (p *Printer) PrintSaveResult(result *datasync.SaveResult) {
	switch result.Status {
	case datasync.SaveStatusSaved:
		p.green.Fprintf(p.writer, "Saved %q\n", result.Word.Text)
	case datasync.SaveStatusQueued:
		p.yellow.Fprintf(p.writer, "Offline: queued %q. It will be saved on the next sync.\n", result.Pending.Text)
	}
}

func (p *Printer) PrintDrainResult(result *datasync.DrainResult, err error) {
	if result == nil || result.Pending == 0 {
		return
	}
	if err != nil {
		p.red.Fprintf(p.writer, "Synced %d of %d pending words. The queue was kept: %v\n", result.Inserted, result.Pending, err)
		return
	}
	p.green.Fprintf(p.writer, "Synced %d pending words\n", result.Inserted)
}

// PrintSnapshot prints the words of a refresh grouped with their category names.
func (p *Printer) PrintSnapshot(snapshot *datasync.Snapshot) {
	if !snapshot.Online {
		p.yellow.Fprintln(p.writer, "Offline: pending words were not synced")
	}
	p.PrintDrainResult(snapshot.Drain, snapshot.DrainErr)

	categoryNames := make(map[string]string, len(snapshot.Categories))
	for _, category := range snapshot.Categories {
		categoryNames[category.ID] = category.Name
	}

	if len(snapshot.Words) == 0 {
		fmt.Fprintln(p.writer, "No words")
	}
	for _, w := range snapshot.Words {
		p.printWordLine(w, categoryNames[w.CategoryIDText()])
	}
	if snapshot.UncategorizedCount > 0 {
		p.italic.Fprintf(p.writer, "%d uncategorized words. Run `wordlog categorize` to sort them.\n", snapshot.UncategorizedCount)
	}
}

func (p *Printer) printWordLine(w word.Word, categoryName string) {
	p.bold.Fprint(p.writer, w.Text)
	fmt.Fprintf(p.writer, "  [%s] views:%d/%d", w.ID, w.ViewCount, word.LearnedViewCount)
	if categoryName != "" {
		fmt.Fprintf(p.writer, " category:%s", categoryName)
	}
	fmt.Fprintln(p.writer)
	if memo := w.MemoText(); memo != "" {
		p.italic.Fprintf(p.writer, "    %s\n", memo)
	}
}

// PrintWord prints every stored field of a word.
func (p *Printer) PrintWord(w *word.Word) {
	p.bold.Fprintln(p.writer, w.Text)
	fmt.Fprintf(p.writer, "id: %s\nviews: %d/%d\nadded: %s\n", w.ID, w.ViewCount, word.LearnedViewCount, w.CreatedAt.Local().Format(timeLayout))
	if memo := w.MemoText(); memo != "" {
		fmt.Fprintf(p.writer, "memo: %s\n", memo)
	}
	if summary := w.SummaryText(); summary != "" {
		fmt.Fprintf(p.writer, "\n%s\n", summary)
	}
	if detail := w.DetailText(); detail != "" {
		fmt.Fprintf(p.writer, "\n%s\n", detail)
	}
}

func (p *Printer) PrintViewResult(result *learning.ViewResult) {
	if result.Learned {
		p.green.Fprintf(p.writer, "%q reached %d views and was removed as learned\n", result.Word.Text, word.LearnedViewCount)
		return
	}
	p.PrintWord(result.Word)
	if result.SummaryErr != nil {
		p.red.Fprintf(p.writer, "Summary unavailable: %s\n", DescribeError(result.SummaryErr))
	}
}

func (p *Printer) PrintPending(pending []offline.PendingWord) {
	if len(pending) == 0 {
		fmt.Fprintln(p.writer, "No pending words")
		return
	}
	for _, entry := range pending {
		p.bold.Fprint(p.writer, entry.Text)
		fmt.Fprintf(p.writer, "  queued at %s\n", entry.CreatedAt.Local().Format(timeLayout))
		if entry.Memo != nil && *entry.Memo != "" {
			p.italic.Fprintf(p.writer, "    %s\n", *entry.Memo)
		}
	}
}

func (p *Printer) PrintCategorizeReport(report *categorize.Report) {
	for _, category := range report.CreatedCategories {
		p.green.Fprintf(p.writer, "New category: %s\n", category.Name)
	}
	for _, assignment := range report.Assigned {
		fmt.Fprintf(p.writer, "%s -> %s\n", assignment.Text, assignment.Category)
	}
	for _, result := range report.Unmatched {
		p.yellow.Fprintf(p.writer, "Skipped %q: no uncategorized word has this text\n", result.Text)
	}
	for _, failure := range report.Failures {
		p.red.Fprintf(p.writer, "Failed %q (%s): %v\n", failure.Text, failure.Category, failure.Err)
	}
	fmt.Fprintf(p.writer, "Categorized %d words\n", len(report.Assigned))
}

// DescribeError turns an error into a short message for the terminal.
func DescribeError(err error) string {
	var httpErr *inference.HTTPError
	switch {
	case errors.Is(err, connectivity.ErrOffline):
		return "you are offline"
	case errors.Is(err, inference.ErrEmptyResponse):
		return "the model returned an empty answer"
	case errors.As(err, &httpErr) && httpErr.StatusCode == 429:
		return "the model is rate limited, try again later"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("the model request failed with status %d", httpErr.StatusCode)
	default:
		return strings.TrimSpace(err.Error())
	}
}
