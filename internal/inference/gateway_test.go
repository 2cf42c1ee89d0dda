package inference_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordlog/internal/inference"
	mock_inference "github.com/at-ishikawa/wordlog/internal/mocks/inference"
)

func TestGateway_Summarize(t *testing.T) {
	tests := []struct {
		name      string
		params    inference.ExplainRequest
		setup     func(completer *mock_inference.MockCompleter)
		want      string
		wantErrIs error
	}{
		{
			name:   "returns the reply verbatim",
			params: inference.ExplainRequest{Text: "serendipity", Memo: "podcast"},
			setup: func(completer *mock_inference.MockCompleter) {
				completer.EXPECT().
					Complete(gomock.Any(), gomock.Cond(func(x any) bool {
						prompt, _ := x.(string)
						return strings.Contains(prompt, `"serendipity"`) &&
							strings.HasSuffix(prompt, "\nSupplementary information: podcast")
					})).
					Return("  line one\nline two\n", nil)
			},
			want: "  line one\nline two\n",
		},
		{
			name:   "empty response",
			params: inference.ExplainRequest{Text: "serendipity"},
			setup: func(completer *mock_inference.MockCompleter) {
				completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", inference.ErrEmptyResponse)
			},
			wantErrIs: inference.ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := mock_inference.NewMockCompleter(ctrl)
			tt.setup(completer)

			got, err := inference.NewGateway(completer, "").Summarize(context.Background(), tt.params)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGateway_Elaborate(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mock_inference.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Cond(func(x any) bool {
			prompt, _ := x.(string)
			return strings.Contains(prompt, "- Concrete examples") && strings.Contains(prompt, "Answer in Japanese.")
		})).
		Return("detail", nil)

	got, err := inference.NewGateway(completer, "Japanese").Elaborate(context.Background(), inference.ExplainRequest{Text: "ephemeral"})
	require.NoError(t, err)
	assert.Equal(t, "detail", got)
}

func TestGateway_CategorizeBatch(t *testing.T) {
	httpErr := &inference.HTTPError{StatusCode: 503, Body: "unavailable"}

	tests := []struct {
		name      string
		reply     string
		replyErr  error
		want      []inference.CategorizeResult
		wantErrIs error
	}{
		{
			name:  "parses fenced reply",
			reply: "```json\n[{\"text\":\"apple\",\"category\":\"Food\"}]\n```",
			want:  []inference.CategorizeResult{{Text: "apple", Category: "Food"}},
		},
		{
			name:      "malformed reply",
			reply:     "Sorry, I cannot help with that.",
			wantErrIs: inference.ErrMalformedResponse,
		},
		{
			name:      "http error passes through",
			replyErr:  httpErr,
			wantErrIs: httpErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := mock_inference.NewMockCompleter(ctrl)
			completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(tt.reply, tt.replyErr)

			got, err := inference.NewGateway(completer, "").CategorizeBatch(context.Background(), inference.CategorizeRequest{
				Words:              []inference.CategorizeWord{{Text: "apple"}},
				ExistingCategories: []string{"Food"},
			})
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrors(t *testing.T) {
	var httpErr *inference.HTTPError
	err := error(&inference.HTTPError{StatusCode: 429, Body: "quota"})
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 429, httpErr.StatusCode)
	assert.Equal(t, "LLM API error: 429", err.Error())
}
