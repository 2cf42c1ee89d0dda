package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordlog/internal/connectivity"
	"github.com/at-ishikawa/wordlog/internal/learning"
	mock_cli "github.com/at-ishikawa/wordlog/internal/mocks/cli"
	mock_inference "github.com/at-ishikawa/wordlog/internal/mocks/inference"
	mock_word "github.com/at-ishikawa/wordlog/internal/mocks/word"
	"github.com/at-ishikawa/wordlog/internal/word"
)

func TestRun(t *testing.T) {
	t.Run("stops at the end of the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := mock_cli.NewMockSession(ctrl)
		gomock.InOrder(
			session.EXPECT().Session(gomock.Any()).Return(nil).Times(2),
			session.EXPECT().Session(gomock.Any()).Return(errEnd),
		)
		assert.NoError(t, Run(context.Background(), session))
	})

	t.Run("returns a session error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := mock_cli.NewMockSession(ctrl)
		want := errors.New("broken")
		session.EXPECT().Session(gomock.Any()).Return(want)
		assert.ErrorIs(t, Run(context.Background(), session), want)
	})

	t.Run("canceled context stops before the next session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := mock_cli.NewMockSession(ctrl)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, Run(ctx, session))
	})
}

func TestReviewCLI_Session(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	words := []word.Word{
		{ID: "w1", Text: "apple", Summary: word.OptionalString("a fruit"), ViewCount: 1},
		{ID: "w2", Text: "banana", Summary: word.OptionalString("a yellow fruit"), ViewCount: 4},
	}
	viewCount := func(n int) word.Patch {
		return word.Patch{ViewCount: &n}
	}

	tests := []struct {
		name        string
		input       string
		setup       func(wordRepo *mock_word.MockWordRepository, client *mock_inference.MockClient)
		contains    []string
		notContains []string
		wantErr     bool
	}{
		{
			name:  "view the first word and the second is learned",
			input: "\n\n\n",
			setup: func(wordRepo *mock_word.MockWordRepository, client *mock_inference.MockClient) {
				first, second := words[0], words[1]
				wordRepo.EXPECT().FindByID(gomock.Any(), "w1").Return(&first, nil)
				wordRepo.EXPECT().Update(gomock.Any(), "w1", viewCount(2)).Return(nil)
				wordRepo.EXPECT().FindByID(gomock.Any(), "w2").Return(&second, nil)
				wordRepo.EXPECT().Delete(gomock.Any(), "w2").Return(nil)
			},
			contains: []string{"a fruit", "\"banana\" reached 5 views", "All words reviewed"},
		},
		{
			name:  "skip then quit",
			input: "s\nq\n",
			setup: func(wordRepo *mock_word.MockWordRepository, client *mock_inference.MockClient) {},
			contains: []string{
				"apple\nPress Enter to show",
				"banana\nPress Enter to show",
			},
			notContains: []string{"a fruit", "All words reviewed"},
		},
		{
			name:  "details are generated on request",
			input: "\nd\nq\n",
			setup: func(wordRepo *mock_word.MockWordRepository, client *mock_inference.MockClient) {
				first := words[0]
				wordRepo.EXPECT().FindByID(gomock.Any(), "w1").Return(&first, nil).Times(2)
				wordRepo.EXPECT().Update(gomock.Any(), "w1", viewCount(2)).Return(nil)
				client.EXPECT().Elaborate(gomock.Any(), gomock.Any()).Return("apples grow on trees", nil)
				detail := "apples grow on trees"
				wordRepo.EXPECT().Update(gomock.Any(), "w1", word.Patch{Detail: &detail}).Return(nil)
			},
			contains: []string{"\napples grow on trees\n"},
		},
		{
			name:     "end of input ends the session",
			input:    "",
			setup:    func(wordRepo *mock_word.MockWordRepository, client *mock_inference.MockClient) {},
			contains: []string{"apple\n"},
		},
		{
			name:  "view failure stops the review",
			input: "\n",
			setup: func(wordRepo *mock_word.MockWordRepository, client *mock_inference.MockClient) {
				wordRepo.EXPECT().FindByID(gomock.Any(), "w1").Return(nil, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wordRepo := mock_word.NewMockWordRepository(ctrl)
			client := mock_inference.NewMockClient(ctrl)
			tt.setup(wordRepo, client)

			var stdout bytes.Buffer
			viewer := learning.NewViewer(wordRepo, client, connectivity.Fixed(true))
			err := Run(context.Background(), NewReviewCLI(viewer, words, strings.NewReader(tt.input), &stdout))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, stdout.String(), want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, stdout.String(), unwanted)
			}
		})
	}
}
