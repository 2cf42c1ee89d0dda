package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/wordlog/internal/learning"
	"github.com/at-ishikawa/wordlog/internal/word"
)

var errEnd = errors.New("end")

//go:generate mockgen -source=review.go -destination=../mocks/cli/mock_session.go -package=mock_cli

type Session interface {
	Session(ctx context.Context) error
}

// Run calls session until it ends, fails or ctx is canceled.
func Run(ctx context.Context, session Session) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := session.Session(ctx); err != nil {
			if errors.Is(err, errEnd) {
				return nil
			}
			return fmt.Errorf("error: %w", err)
		}
	}
}

// ReviewCLI shows words one at a time. Revealing a word counts as a view.
type ReviewCLI struct {
	viewer       *learning.Viewer
	printer      *Printer
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	words        []word.Word
	index        int
}

func NewReviewCLI(viewer *learning.Viewer, words []word.Word, stdin io.Reader, stdout io.Writer) *ReviewCLI {
	return &ReviewCLI{
		viewer:       viewer,
		printer:      NewPrinter(stdout),
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		words:        words,
	}
}

func (cli *ReviewCLI) Session(ctx context.Context) error {
	if cli.index >= len(cli.words) {
		fmt.Fprintln(cli.stdoutWriter, "All words reviewed")
		return errEnd
	}
	current := cli.words[cli.index]

	cli.printer.bold.Fprintf(cli.stdoutWriter, "\n%s\n", current.Text)
	answer, err := cli.prompt("Press Enter to show, s to skip, q to quit: ")
	if err != nil {
		return err
	}
	switch answer {
	case "q":
		return errEnd
	case "s":
		cli.index++
		return nil
	}

	result, err := cli.viewer.View(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("viewer.View(%s) > %w", current.ID, err)
	}
	cli.index++
	cli.printer.PrintViewResult(result)
	if result.Learned {
		return nil
	}

	answer, err = cli.prompt("d for details, Enter for next: ")
	if err != nil {
		return err
	}
	if answer != "d" {
		return nil
	}
	detailed, err := cli.viewer.GenerateDetail(ctx, current.ID, false)
	if err != nil {
		cli.printer.red.Fprintf(cli.stdoutWriter, "Details unavailable: %s\n", DescribeError(err))
		return nil
	}
	fmt.Fprintf(cli.stdoutWriter, "\n%s\n", detailed.DetailText())
	return nil
}

// prompt reads one trimmed, lower-cased line. End of input ends the session.
func (cli *ReviewCLI) prompt(message string) (string, error) {
	fmt.Fprint(cli.stdoutWriter, message)
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", errEnd
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("stdinReader.ReadString() > %w", err)
		}
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
