package word

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/word/mock_repository.go -package=mock_word

// WordRepository defines the record store operations on words.
type WordRepository interface {
	// Find returns words matching the filter, newest first.
	Find(ctx context.Context, filter Filter) ([]Word, error)
	// FindByID returns ErrNotFound when no word has the id.
	FindByID(ctx context.Context, id string) (*Word, error)
	CountUncategorized(ctx context.Context) (int, error)
	// Create inserts the text and memo of w and fills the fields assigned by the store.
	Create(ctx context.Context, w *Word) error
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the record store operations on categories.
type CategoryRepository interface {
	// FindAll returns every category ordered by name.
	FindAll(ctx context.Context) ([]Category, error)
	// Create inserts c.Name and fills the fields assigned by the store.
	Create(ctx context.Context, c *Category) error
}

var (
	_ WordRepository     = (*DBWordRepository)(nil)
	_ CategoryRepository = (*DBCategoryRepository)(nil)
)

var wordColumns = []string{"id", "text", "memo", "summary", "detail", "category_id", "view_count", "created_at"}

// DBWordRepository implements WordRepository using MySQL.
type DBWordRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDBWordRepository creates a new DBWordRepository.
func NewDBWordRepository(db *sqlx.DB) *DBWordRepository {
	return &DBWordRepository{db: db, now: time.Now}
}

func (r *DBWordRepository) Find(ctx context.Context, filter Filter) ([]Word, error) {
	query := squirrel.Select(wordColumns...).From("words").OrderBy("created_at DESC")
	if filter.CategoryID != "" {
		query = query.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}
	if filter.Uncategorized {
		query = query.Where(squirrel.Eq{"category_id": nil})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql() > %w", err)
	}
	words := []Word{}
	if err := r.db.SelectContext(ctx, &words, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words) > %w", err)
	}
	return words, nil
}

func (r *DBWordRepository) FindByID(ctx context.Context, id string) (*Word, error) {
	sqlStr, args, err := squirrel.Select(wordColumns...).From("words").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql() > %w", err)
	}

	var w Word
	err = r.db.GetContext(ctx, &w, sqlStr, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word) > %w", err)
	}
	return &w, nil
}

func (r *DBWordRepository) CountUncategorized(ctx context.Context) (int, error) {
	sqlStr, args, err := squirrel.Select("COUNT(*)").From("words").
		Where(squirrel.Eq{"category_id": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("query.ToSql() > %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, sqlStr, args...); err != nil {
		return 0, fmt.Errorf("db.GetContext(count uncategorized) > %w", err)
	}
	return count, nil
}

func (r *DBWordRepository) Create(ctx context.Context, w *Word) error {
	id := uuid.NewString()
	createdAt := r.now().UTC().Truncate(time.Microsecond)

	sqlStr, args, err := squirrel.Insert("words").
		Columns("id", "text", "memo", "view_count", "created_at").
		Values(id, w.Text, w.Memo, 0, createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql() > %w", err)
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("db.ExecContext(insert word) > %w", err)
	}

	w.ID = id
	w.ViewCount = 0
	w.CreatedAt = createdAt
	return nil
}

func (r *DBWordRepository) Update(ctx context.Context, id string, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	sqlStr, args, err := squirrel.Update("words").
		SetMap(patch.Columns()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql() > %w", err)
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("db.ExecContext(update word %s) > %w", id, err)
	}
	return nil
}

func (r *DBWordRepository) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := squirrel.Delete("words").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql() > %w", err)
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("db.ExecContext(delete word %s) > %w", id, err)
	}
	return nil
}

// DBCategoryRepository implements CategoryRepository using MySQL.
type DBCategoryRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDBCategoryRepository creates a new DBCategoryRepository.
func NewDBCategoryRepository(db *sqlx.DB) *DBCategoryRepository {
	return &DBCategoryRepository{db: db, now: time.Now}
}

func (r *DBCategoryRepository) FindAll(ctx context.Context) ([]Category, error) {
	sqlStr, args, err := squirrel.Select("id", "name", "created_at").From("categories").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql() > %w", err)
	}

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(categories) > %w", err)
	}
	return categories, nil
}

func (r *DBCategoryRepository) Create(ctx context.Context, c *Category) error {
	id := uuid.NewString()
	createdAt := r.now().UTC().Truncate(time.Microsecond)

	sqlStr, args, err := squirrel.Insert("categories").
		Columns("id", "name", "created_at").
		Values(id, c.Name, createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql() > %w", err)
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("db.ExecContext(insert category) > %w", err)
	}

	c.ID = id
	c.CreatedAt = createdAt
	return nil
}
