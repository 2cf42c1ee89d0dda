package datasync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/wordlog/internal/word"
)

// ExportData holds all records read from the record store.
type ExportData struct {
	Words      []word.Word
	Categories []word.Category
}

// Exporter reads all records for backup.
type Exporter struct {
	wordRepo     word.WordRepository
	categoryRepo word.CategoryRepository
}

// NewExporter creates a new Exporter.
func NewExporter(wordRepo word.WordRepository, categoryRepo word.CategoryRepository) *Exporter {
	return &Exporter{
		wordRepo:     wordRepo,
		categoryRepo: categoryRepo,
	}
}

// Export reads all words and categories.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	words, err := e.wordRepo.Find(ctx, word.Filter{})
	if err != nil {
		return nil, fmt.Errorf("wordRepo.Find() > %w", err)
	}
	categories, err := e.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.FindAll() > %w", err)
	}
	return &ExportData{
		Words:      words,
		Categories: categories,
	}, nil
}

// YAMLSink writes exported records to YAML files.
type YAMLSink struct {
	outputDir string
}

// NewYAMLSink creates a new YAMLSink.
func NewYAMLSink(outputDir string) *YAMLSink {
	return &YAMLSink{outputDir: outputDir}
}

// WriteAll writes words and categories to separate YAML files.
func (s *YAMLSink) WriteAll(data *ExportData) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := writeYAML(filepath.Join(s.outputDir, "words.yml"), data.Words); err != nil {
		return fmt.Errorf("write words.yml: %w", err)
	}
	if err := writeYAML(filepath.Join(s.outputDir, "categories.yml"), data.Categories); err != nil {
		return fmt.Errorf("write categories.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
