package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Completer sends a single prompt to a text generation model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client interface defines the explanation and categorization operations backed by a model
type Client interface {
	// Summarize returns a short plain-text explanation, verbatim.
	Summarize(ctx context.Context, params ExplainRequest) (string, error)
	// Elaborate returns a longer plain-text explanation with background and examples, verbatim.
	Elaborate(ctx context.Context, params ExplainRequest) (string, error)
	// CategorizeBatch assigns every word to an existing category or a proposed new one.
	CategorizeBatch(ctx context.Context, params CategorizeRequest) ([]CategorizeResult, error)
}

// ExplainRequest holds the word to explain. Memo is optional supplementary information.
type ExplainRequest struct {
	Text string
	Memo string
}

// CategorizeWord is one word to categorize
type CategorizeWord struct {
	Text string
	Memo string
}

type CategorizeRequest struct {
	Words              []CategorizeWord
	ExistingCategories []string
}

// CategorizeResult is the category the model picked for a word.
// Neither field is validated: text may not match any requested word and category may be new.
type CategorizeResult struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}
