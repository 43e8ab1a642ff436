package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	documents driven.DocumentStore
	lessons   driven.LessonStore
	files     driven.FileStore
	parser    driven.DocumentParser
	logger    *slog.Logger
}

// DocumentServiceConfig holds dependencies for the document service.
type DocumentServiceConfig struct {
	Documents driven.DocumentStore
	Lessons   driven.LessonStore
	Files     driven.FileStore
	Parser    driven.DocumentParser
	Logger    *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) driving.DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		documents: cfg.Documents,
		lessons:   cfg.Lessons,
		files:     cfg.Files,
		parser:    cfg.Parser,
		logger:    logger,
	}
}

// Upload stores a file and attaches it to a lesson owned by the user
func (s *documentService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.Document, error) {
	fileName := cleanFileName(req.FileName)
	if fileName == "" || req.Content == nil {
		return nil, domain.ErrInvalidInput
	}
	if !domain.IsAllowedUpload(fileName) {
		return nil, domain.ErrUnsupportedUpload
	}

	if _, err := s.lessons.GetOwned(ctx, req.LessonID, req.UserID); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("lesson_%d/%s_%s", req.LessonID, uuid.NewString(), fileName)
	size, err := s.files.Write(ctx, path, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &domain.Document{
		LessonID:         req.LessonID,
		OriginalFilename: fileName,
		FileType:         domain.FileExtension(fileName),
		FilePath:         path,
		UploadedAt:       time.Now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if delErr := s.files.Delete(context.WithoutCancel(ctx), path); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "path", path, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"lesson_id", doc.LessonID,
		"file_type", doc.FileType,
		"bytes", size,
	)
	return doc, nil
}

// Get retrieves a document the user may access
func (s *documentService) Get(ctx context.Context, userID, id int64) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.lessons.GetOwned(ctx, doc.LessonID, userID); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByLesson retrieves all documents attached to a lesson owned by the user
func (s *documentService) ListByLesson(ctx context.Context, userID, lessonID int64) ([]*domain.Document, error) {
	if _, err := s.lessons.GetOwned(ctx, lessonID, userID); err != nil {
		return nil, err
	}
	return s.documents.ListByLesson(ctx, lessonID)
}

// Delete removes the stored file, then the document record
func (s *documentService) Delete(ctx context.Context, userID, id int64) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, doc.FilePath); err != nil {
		s.logger.Warn("failed to delete stored file", "document_id", id, "path", doc.FilePath, "error", err)
	}

	return s.documents.Delete(ctx, id)
}

// Parse previews the conversion output without persisting anything
func (s *documentService) Parse(ctx context.Context, userID, id int64) (*domain.ParseResult, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(ctx, doc.FilePath, doc.OriginalFilename)
}

// ConversionStatus returns the conversion state of a document
func (s *documentService) ConversionStatus(ctx context.Context, userID, id int64) (*domain.ConversionStatus, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.status(doc), nil
}

// ClearConversionError forgets a recorded failure. Converted documents are returned unchanged.
func (s *documentService) ClearConversionError(ctx context.Context, userID, id int64) (*domain.ConversionStatus, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if doc.Converted || doc.ConversionError == nil {
		return s.status(doc), nil
	}

	if err := s.documents.ClearConversionError(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to clear conversion error: %w", err)
	}
	doc.ConversionError = nil

	s.logger.Info("conversion error cleared", "document_id", id, "user_id", userID)
	return s.status(doc), nil
}

// status projects the document and marks whether its format can be parsed
func (s *documentService) status(doc *domain.Document) *domain.ConversionStatus {
	status := doc.Status()
	status.CanParse = s.parser.Supports(doc.OriginalFilename)
	return status
}

// cleanFileName drops any directory part a client sent along with the name
func cleanFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
