package inference

import (
	"context"
	"fmt"
	"log/slog"
)

// Gateway implements Client by building prompts and delegating to a Completer.
type Gateway struct {
	completer Completer
	language  string
}

// NewGateway creates a Gateway. A non-empty language asks the model to answer in it.
func NewGateway(completer Completer, language string) *Gateway {
	return &Gateway{
		completer: completer,
		language:  language,
	}
}

func (g *Gateway) Summarize(ctx context.Context, params ExplainRequest) (string, error) {
	reply, err := g.completer.Complete(ctx, buildSummaryPrompt(params, g.language))
	if err != nil {
		return "", fmt.Errorf("completer.Complete(summary) > %w", err)
	}
	return reply, nil
}

func (g *Gateway) Elaborate(ctx context.Context, params ExplainRequest) (string, error) {
	reply, err := g.completer.Complete(ctx, buildDetailPrompt(params, g.language))
	if err != nil {
		return "", fmt.Errorf("completer.Complete(detail) > %w", err)
	}
	return reply, nil
}

func (g *Gateway) CategorizeBatch(ctx context.Context, params CategorizeRequest) ([]CategorizeResult, error) {
	reply, err := g.completer.Complete(ctx, buildCategorizePrompt(params, g.language))
	if err != nil {
		return nil, fmt.Errorf("completer.Complete(categorize) > %w", err)
	}

	results, err := ParseCategorizeResults(reply)
	if err != nil {
		slog.Default().Error("Failed to parse categorization reply",
			"wordCount", len(params.Words),
			"reply", reply,
			"error", err)
		return nil, err
	}
	return results, nil
}
