package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordlog/internal/inference"
	mock_inference "github.com/at-ishikawa/wordlog/internal/mocks/inference"
	mock_word "github.com/at-ishikawa/wordlog/internal/mocks/word"
	"github.com/at-ishikawa/wordlog/internal/word"
)

func categoryPatch(id string) word.Patch {
	return word.Patch{CategoryID: &id}
}

func TestCategorizer_Run(t *testing.T) {
	uncategorized := []word.Word{
		{ID: "w1", Text: "apple"},
		{ID: "w2", Text: "run out of", Memo: word.OptionalString("used up")},
		{ID: "w3", Text: "apple"},
	}
	existing := []word.Category{{ID: "c1", Name: "Food"}}

	tests := []struct {
		name    string
		results []inference.CategorizeResult
		setup   func(wordRepo *mock_word.MockWordRepository, categoryRepo *mock_word.MockCategoryRepository)
		want    func(t *testing.T, report *Report)
	}{
		{
			name: "existing category is reused and the first matching word is updated",
			results: []inference.CategorizeResult{
				{Text: "apple", Category: "Food"},
			},
			setup: func(wordRepo *mock_word.MockWordRepository, categoryRepo *mock_word.MockCategoryRepository) {
				wordRepo.EXPECT().Update(gomock.Any(), "w1", categoryPatch("c1")).Return(nil)
			},
			want: func(t *testing.T, report *Report) {
				assert.Equal(t, []Assignment{{WordID: "w1", Text: "apple", CategoryID: "c1", Category: "Food"}}, report.Assigned)
				assert.Empty(t, report.CreatedCategories)
				assert.NoError(t, report.Err())
			},
		},
		{
			name: "proposed category is created once for two results",
			results: []inference.CategorizeResult{
				{Text: "run out of", Category: "Phrasal verbs"},
				{Text: "apple", Category: "Phrasal verbs"},
			},
			setup: func(wordRepo *mock_word.MockWordRepository, categoryRepo *mock_word.MockCategoryRepository) {
				categoryRepo.EXPECT().
					Create(gomock.Any(), &word.Category{Name: "Phrasal verbs"}).
					DoAndReturn(func(_ context.Context, c *word.Category) error {
						c.ID = "c2"
						return nil
					}).
					Times(1)
				wordRepo.EXPECT().Update(gomock.Any(), "w2", categoryPatch("c2")).Return(nil)
				wordRepo.EXPECT().Update(gomock.Any(), "w1", categoryPatch("c2")).Return(nil)
			},
			want: func(t *testing.T, report *Report) {
				assert.Equal(t, []word.Category{{ID: "c2", Name: "Phrasal verbs"}}, report.CreatedCategories)
				assert.Len(t, report.Assigned, 2)
			},
		},
		{
			name: "unmatched text is recorded and ignored",
			results: []inference.CategorizeResult{
				{Text: "Apple", Category: "Food"},
			},
			setup: func(wordRepo *mock_word.MockWordRepository, categoryRepo *mock_word.MockCategoryRepository) {},
			want: func(t *testing.T, report *Report) {
				assert.Equal(t, []inference.CategorizeResult{{Text: "Apple", Category: "Food"}}, report.Unmatched)
				assert.Empty(t, report.Assigned)
			},
		},
		{
			name: "update failure is isolated to its word and processing continues",
			results: []inference.CategorizeResult{
				{Text: "apple", Category: "Food"},
				{Text: "run out of", Category: "Food"},
			},
			setup: func(wordRepo *mock_word.MockWordRepository, categoryRepo *mock_word.MockCategoryRepository) {
				wordRepo.EXPECT().Update(gomock.Any(), "w1", categoryPatch("c1")).Return(errors.New("row locked"))
				wordRepo.EXPECT().Update(gomock.Any(), "w2", categoryPatch("c1")).Return(nil)
			},
			want: func(t *testing.T, report *Report) {
				require.Len(t, report.Failures, 1)
				assert.Equal(t, "w1", report.Failures[0].WordID)
				assert.Equal(t, []Assignment{{WordID: "w2", Text: "run out of", CategoryID: "c1", Category: "Food"}}, report.Assigned)
				assert.Error(t, report.Err())
			},
		},
		{
			name: "category creation failure skips that result only",
			results: []inference.CategorizeResult{
				{Text: "apple", Category: "Fruit"},
				{Text: "run out of", Category: "Food"},
			},
			setup: func(wordRepo *mock_word.MockWordRepository, categoryRepo *mock_word.MockCategoryRepository) {
				categoryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("duplicate name"))
				wordRepo.EXPECT().Update(gomock.Any(), "w2", categoryPatch("c1")).Return(nil)
			},
			want: func(t *testing.T, report *Report) {
				require.Len(t, report.Failures, 1)
				assert.Empty(t, report.Failures[0].WordID)
				assert.Equal(t, "Fruit", report.Failures[0].Category)
				assert.Len(t, report.Assigned, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wordRepo := mock_word.NewMockWordRepository(ctrl)
			categoryRepo := mock_word.NewMockCategoryRepository(ctrl)
			client := mock_inference.NewMockClient(ctrl)

			wordRepo.EXPECT().Find(gomock.Any(), word.Filter{Uncategorized: true}).Return(uncategorized, nil)
			categoryRepo.EXPECT().FindAll(gomock.Any()).Return(existing, nil)
			client.EXPECT().CategorizeBatch(gomock.Any(), inference.CategorizeRequest{
				Words: []inference.CategorizeWord{
					{Text: "apple"},
					{Text: "run out of", Memo: "used up"},
					{Text: "apple"},
				},
				ExistingCategories: []string{"Food"},
			}).Return(tt.results, nil)
			tt.setup(wordRepo, categoryRepo)

			report, err := NewCategorizer(wordRepo, categoryRepo, client).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.results, report.Results)
			tt.want(t, report)
		})
	}
}

func TestCategorizer_Run_NothingToCategorize(t *testing.T) {
	ctrl := gomock.NewController(t)
	wordRepo := mock_word.NewMockWordRepository(ctrl)
	wordRepo.EXPECT().Find(gomock.Any(), word.Filter{Uncategorized: true}).Return([]word.Word{}, nil)

	_, err := NewCategorizer(wordRepo, mock_word.NewMockCategoryRepository(ctrl), mock_inference.NewMockClient(ctrl)).
		Run(context.Background())
	assert.ErrorIs(t, err, ErrNothingToCategorize)
}

func TestCategorizer_Run_GatewayFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "malformed reply", err: &inference.MalformedResponseError{Reply: "prose", Err: errors.New("invalid character")}},
		{name: "http error", err: &inference.HTTPError{StatusCode: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wordRepo := mock_word.NewMockWordRepository(ctrl)
			categoryRepo := mock_word.NewMockCategoryRepository(ctrl)
			client := mock_inference.NewMockClient(ctrl)

			wordRepo.EXPECT().Find(gomock.Any(), gomock.Any()).Return([]word.Word{{ID: "w1", Text: "apple"}}, nil)
			categoryRepo.EXPECT().FindAll(gomock.Any()).Return([]word.Category{}, nil)
			client.EXPECT().CategorizeBatch(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			report, err := NewCategorizer(wordRepo, categoryRepo, client).Run(context.Background())
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
