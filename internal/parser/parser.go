// Package parser turns uploaded text documents into a title, content and
// extractive summary. Only plain text and markdown files are understood.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentParser = (*Parser)(nil)

// Config holds parser settings
type Config struct {
	// Extensions that can be parsed (default: .txt, .md, .markdown)
	Extensions []string
	// Encodings tried in order when decoding file bytes
	Encodings []string
	// MaxSentences kept in a summary (default: 3)
	MaxSentences int
	// MaxSummaryLength in characters (default: 500)
	MaxSummaryLength int
	Logger           *slog.Logger
}

// DefaultConfig returns the standard parser configuration
func DefaultConfig() Config {
	return Config{
		Extensions:       append([]string(nil), DefaultExtensions...),
		Encodings:        append([]string(nil), DefaultEncodings...),
		MaxSentences:     DefaultMaxSentences,
		MaxSummaryLength: DefaultMaxSummaryLength,
	}
}

// Parser reads documents from a FileStore and extracts lesson material
type Parser struct {
	files      driven.FileStore
	classifier *Classifier
	decoder    *Decoder
	summarizer *Summarizer
	logger     *slog.Logger
}

// New creates a parser. Empty config fields fall back to DefaultConfig.
func New(files driven.FileStore, cfg Config) (*Parser, error) {
	defaults := DefaultConfig()
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = defaults.Extensions
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = defaults.Encodings
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	decoder, err := NewDecoderFromNames(logger, cfg.Encodings)
	if err != nil {
		return nil, fmt.Errorf("parser config: %w", err)
	}

	p := &Parser{
		files:      files,
		classifier: NewClassifier(cfg.Extensions),
		decoder:    decoder,
		summarizer: NewSummarizer(cfg.MaxSentences, cfg.MaxSummaryLength),
		logger:     logger,
	}
	logger.Info("document parser configured",
		"extensions", p.classifier.Extensions(),
		"encodings", p.decoder.Encodings(),
	)
	return p, nil
}

// Parse extracts title, content and summary from the file stored at filePath.
// The format is judged from fileName before any file access. The title always
// comes from fileName.
func (p *Parser) Parse(ctx context.Context, filePath, fileName string) (*domain.ParseResult, error) {
	if !p.classifier.IsSupported(fileName) {
		return nil, domain.NewParseError(domain.ParseErrUnsupportedFormat,
			"Unsupported file format: "+Extension(fileName))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := p.files.Read(ctx, filePath)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewParseError(domain.ParseErrFileNotFound, "File not found: "+filePath)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, encodingName, ok := p.decoder.Decode(data)
	if !ok {
		return nil, domain.NewParseError(domain.ParseErrDecode,
			"Could not decode file with any supported encoding")
	}

	if strings.TrimSpace(content) == "" {
		return nil, domain.NewParseError(domain.ParseErrEmptyContent, "Document content is empty")
	}

	p.logger.Debug("document parsed",
		"file", fileName,
		"encoding", encodingName,
		"bytes", len(data),
	)

	return &domain.ParseResult{
		Title:   ExtractTitle(fileName),
		Content: content,
		Summary: p.summarizer.Summarize(content),
	}, nil
}

// Supports reports whether fileName can be parsed
func (p *Parser) Supports(fileName string) bool {
	return p.classifier.IsSupported(fileName)
}
