package supabase

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/wordlog/internal/word"
)

var (
	_ word.WordRepository     = (*WordRepository)(nil)
	_ word.CategoryRepository = (*CategoryRepository)(nil)
)

// WordRepository implements word.WordRepository on the words table.
type WordRepository struct {
	client *Client
}

func NewWordRepository(client *Client) *WordRepository {
	return &WordRepository{client: client}
}

func (r *WordRepository) Find(ctx context.Context, filter word.Filter) ([]word.Word, error) {
	request := r.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("order", "created_at.desc")
	if filter.CategoryID != "" {
		request.SetQueryParam("category_id", eq(filter.CategoryID))
	}
	if filter.Uncategorized {
		request.SetQueryParam("category_id", "is.null")
	}

	var words []word.Word
	response, err := request.SetResult(&words).Get("/words")
	if err := checkResponse(response, err); err != nil {
		return nil, fmt.Errorf("GET /words > %w", err)
	}
	if words == nil {
		words = []word.Word{}
	}
	return words, nil
}

func (r *WordRepository) FindByID(ctx context.Context, id string) (*word.Word, error) {
	var words []word.Word
	response, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("id", eq(id)).
		SetResult(&words).
		Get("/words")
	if err := checkResponse(response, err); err != nil {
		return nil, fmt.Errorf("GET /words?id=%s > %w", id, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word %s: %w", id, word.ErrNotFound)
	}
	return &words[0], nil
}

func (r *WordRepository) CountUncategorized(ctx context.Context) (int, error) {
	response, err := r.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("select", "id").
		SetQueryParam("category_id", "is.null").
		Head("/words")
	if err := checkResponse(response, err); err != nil {
		return 0, fmt.Errorf("HEAD /words > %w", err)
	}

	count, err := parseContentRangeTotal(response.Header().Get("Content-Range"))
	if err != nil {
		return 0, fmt.Errorf("parseContentRangeTotal > %w", err)
	}
	return count, nil
}

type insertWordRequest struct {
	Text string  `json:"text"`
	Memo *string `json:"memo"`
}

func (r *WordRepository) Create(ctx context.Context, w *word.Word) error {
	var created []word.Word
	response, err := r.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(insertWordRequest{Text: w.Text, Memo: w.Memo}).
		SetResult(&created).
		Post("/words")
	if err := checkResponse(response, err); err != nil {
		return fmt.Errorf("POST /words > %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("POST /words returned no row")
	}
	*w = created[0]
	return nil
}

func (r *WordRepository) Update(ctx context.Context, id string, patch word.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	response, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("id", eq(id)).
		SetBody(patch).
		Patch("/words")
	if err := checkResponse(response, err); err != nil {
		return fmt.Errorf("PATCH /words?id=%s > %w", id, err)
	}
	return nil
}

func (r *WordRepository) Delete(ctx context.Context, id string) error {
	response, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("id", eq(id)).
		Delete("/words")
	if err := checkResponse(response, err); err != nil {
		return fmt.Errorf("DELETE /words?id=%s > %w", id, err)
	}
	return nil
}

// CategoryRepository implements word.CategoryRepository on the categories table.
type CategoryRepository struct {
	client *Client
}

func NewCategoryRepository(client *Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]word.Category, error) {
	var categories []word.Category
	response, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("order", "name.asc").
		SetResult(&categories).
		Get("/categories")
	if err := checkResponse(response, err); err != nil {
		return nil, fmt.Errorf("GET /categories > %w", err)
	}
	if categories == nil {
		categories = []word.Category{}
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *word.Category) error {
	var created []word.Category
	response, err := r.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(map[string]string{"name": c.Name}).
		SetResult(&created).
		Post("/categories")
	if err := checkResponse(response, err); err != nil {
		return fmt.Errorf("POST /categories > %w", err)
	}
	if len(created) == 0 {
		return fmt.Errorf("POST /categories returned no row")
	}
	*c = created[0]
	return nil
}
