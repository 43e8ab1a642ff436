package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure conversionService implements ConversionService
var _ driving.ConversionService = (*conversionService)(nil)

// conversionService converts uploaded documents into lessons.
// The flow is:
//  1. Load the document
//  2. Reject documents that were already converted
//  3. Check the container lesson belongs to the acting user
//  4. Parse the stored file, recording parse failures on the document
//  5. Resolve the destination category
//  6. Create the lesson
//  7. Mark the document converted
//
// Steps 5-7 share one transaction. A per-document lock, when configured,
// is held for the whole flow.
type conversionService struct {
	documents         driven.DocumentStore
	lessons           driven.LessonStore
	categories        driven.CategoryStore
	parser            driven.DocumentParser
	tx                driven.Transactor
	lock              driven.DistributedLock
	taskQueue         driven.TaskQueue
	lockTTL           time.Duration
	errorWriteTimeout time.Duration
	logger            *slog.Logger
}

// ConversionServiceConfig holds dependencies for the conversion service.
type ConversionServiceConfig struct {
	Documents  driven.DocumentStore
	Lessons    driven.LessonStore
	Categories driven.CategoryStore
	Parser     driven.DocumentParser
	Tx         driven.Transactor
	Lock       driven.DistributedLock // Optional: per-document mutual exclusion
	TaskQueue  driven.TaskQueue       // Optional: required for Enqueue
	LockTTL    time.Duration          // TTL of the per-document lock (default: 2m)
	// ErrorWriteTimeout bounds the best-effort error write (default: 5s)
	ErrorWriteTimeout time.Duration
	Logger            *slog.Logger
}

// NewConversionService creates a new ConversionService
func NewConversionService(cfg ConversionServiceConfig) driving.ConversionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 2 * time.Minute
	}
	errorWriteTimeout := cfg.ErrorWriteTimeout
	if errorWriteTimeout == 0 {
		errorWriteTimeout = 5 * time.Second
	}

	return &conversionService{
		documents:         cfg.Documents,
		lessons:           cfg.Lessons,
		categories:        cfg.Categories,
		parser:            cfg.Parser,
		tx:                cfg.Tx,
		lock:              cfg.Lock,
		taskQueue:         cfg.TaskQueue,
		lockTTL:           lockTTL,
		errorWriteTimeout: errorWriteTimeout,
		logger:            logger,
	}
}

// Convert turns a document into a lesson owned by the acting user
func (s *conversionService) Convert(ctx context.Context, req domain.ConvertRequest) *domain.ConversionResult {
	log := s.logger.With("document_id", req.DocumentID, "user_id", req.UserID)

	// A missing document is reported as such even while its lock is contended
	if _, err := s.documents.Get(ctx, req.DocumentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ConversionFailedWith(domain.CodeNotFound, domain.MsgDocumentNotFound)
		}
		return s.failUnexpected(ctx, log, nil, err)
	}

	if s.lock != nil {
		name := conversionLockName(req.DocumentID)
		acquired, err := s.lock.Acquire(ctx, name, s.lockTTL)
		switch {
		case err != nil:
			// The conditional update in MarkConverted still prevents double conversion
			log.Warn("failed to acquire conversion lock, continuing without it", "error", err)
		case !acquired:
			log.Info("conversion already in progress")
			return domain.ConversionFailedWith(domain.CodeInProgress, domain.MsgConversionInProgress)
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), name); err != nil {
					log.Warn("failed to release conversion lock", "error", err)
				}
			}()
		}
	}

	return s.convert(ctx, log, req)
}

func (s *conversionService) convert(ctx context.Context, log *slog.Logger, req domain.ConvertRequest) *domain.ConversionResult {
	// Step 1: Load the document. It is read again under the lock since a
	// concurrent conversion may have finished in between.
	doc, err := s.documents.Get(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ConversionFailedWith(domain.CodeNotFound, domain.MsgDocumentNotFound)
		}
		return s.failUnexpected(ctx, log, nil, err)
	}

	// Step 2: Converted is terminal
	if doc.Converted {
		return domain.ConversionFailedWith(domain.CodeAlreadyConverted, domain.MsgAlreadyConverted)
	}

	// Step 3: Ownership is established through the container lesson
	if _, err := s.lessons.GetOwned(ctx, doc.LessonID, req.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ConversionFailedWith(domain.CodeAccessDenied, domain.MsgAccessDenied)
		}
		return s.failUnexpected(ctx, log, nil, err)
	}

	// Step 4: Parse
	parsed, err := s.parser.Parse(ctx, doc.FilePath, doc.OriginalFilename)
	if err != nil {
		msg := domain.ParseFailurePrefix + err.Error()
		if interrupted(ctx, err) {
			log.Warn("conversion interrupted while parsing", "error", err)
			return domain.ConversionFailedWith(domain.CodeStorageFailure, msg)
		}
		log.Error("failed to parse document", "file", doc.OriginalFilename, "error", err)
		s.recordError(ctx, log, doc.ID, msg)

		code := domain.CodeParseFailed
		var parseErr *domain.ParseError
		if !errors.As(err, &parseErr) {
			code = domain.CodeStorageFailure
		}
		return domain.ConversionFailedWith(code, msg)
	}

	// Steps 5-7: Category, lesson and document update commit together
	var lessonID int64
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		category, err := resolveCategory(ctx, s.categories, log, req.UserID, req.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to resolve category: %w", err)
		}

		content := parsed.Content
		now := time.Now()
		lesson := &domain.Lesson{
			UserID:     req.UserID,
			CategoryID: &category.ID,
			Title:      truncateTitle(parsed.Title),
			Content:    &content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if req.GenerateSummary {
			summary := parsed.Summary
			lesson.Summary = &summary
		}
		if err := s.lessons.Create(ctx, lesson); err != nil {
			return fmt.Errorf("failed to create lesson: %w", err)
		}

		if err := s.documents.MarkConverted(ctx, doc.ID, lesson.ID); err != nil {
			return fmt.Errorf("failed to mark document converted: %w", err)
		}
		lessonID = lesson.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyConverted) {
			log.Warn("document converted concurrently, lesson rolled back")
			return domain.ConversionFailedWith(domain.CodeAlreadyConverted, domain.MsgAlreadyConverted)
		}
		return s.failUnexpected(ctx, log, doc, err)
	}

	log.Info("document converted", "lesson_id", lessonID)
	return domain.ConversionSucceeded(lessonID)
}

// Enqueue schedules a conversion for a background worker.
// Cheap checks run up front so obviously doomed tasks are never queued.
func (s *conversionService) Enqueue(ctx context.Context, req domain.ConvertRequest) (*domain.Task, error) {
	if s.taskQueue == nil {
		return nil, domain.ErrServiceUnavailable
	}

	doc, err := s.documents.Get(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.lessons.GetOwned(ctx, doc.LessonID, req.UserID); err != nil {
		return nil, err
	}
	if doc.Converted {
		return nil, domain.ErrAlreadyConverted
	}

	task := domain.NewConvertDocumentTask(req)
	if err := s.taskQueue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to enqueue conversion: %w", err)
	}

	s.logger.Info("conversion enqueued",
		"document_id", req.DocumentID,
		"user_id", req.UserID,
		"task_id", task.ID,
	)
	return task, nil
}

// EnqueueLesson queues one conversion per eligible document of a lesson.
// Documents that are converted, carry a recorded error or cannot be parsed
// are skipped. The batch is enqueued atomically.
func (s *conversionService) EnqueueLesson(ctx context.Context, req domain.ConvertLessonRequest) ([]*domain.Task, error) {
	if s.taskQueue == nil {
		return nil, domain.ErrServiceUnavailable
	}

	if _, err := s.lessons.GetOwned(ctx, req.LessonID, req.UserID); err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByLesson(ctx, req.LessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, doc := range docs {
		if !doc.CanConvert() || !s.parser.Supports(doc.OriginalFilename) {
			continue
		}
		tasks = append(tasks, domain.NewConvertDocumentTask(req.ForDocument(doc.ID)))
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	if err := s.taskQueue.EnqueueBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to enqueue conversions: %w", err)
	}

	s.logger.Info("lesson conversions enqueued",
		"lesson_id", req.LessonID,
		"user_id", req.UserID,
		"tasks", len(tasks),
		"skipped", len(docs)-len(tasks),
	)
	return tasks, nil
}

// failUnexpected reports an unexpected failure. When doc is known the
// message is also recorded on it, best effort. Failures caused by the caller
// going away are never recorded.
func (s *conversionService) failUnexpected(
	ctx context.Context,
	log *slog.Logger,
	doc *domain.Document,
	err error,
) *domain.ConversionResult {
	msg := domain.UnexpectedErrorPrefix + err.Error()
	if interrupted(ctx, err) {
		log.Warn("conversion interrupted", "error", err)
		return domain.ConversionFailedWith(domain.CodeStorageFailure, msg)
	}
	log.Error("conversion failed", "error", err)

	if doc != nil {
		s.recordError(ctx, log, doc.ID, msg)
	}
	return domain.ConversionFailedWith(domain.CodeStorageFailure, msg)
}

// recordError persists msg on the document as a separate operation.
// A failure here is logged and otherwise ignored.
func (s *conversionService) recordError(ctx context.Context, log *slog.Logger, documentID int64, msg string) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.errorWriteTimeout)
	defer cancel()

	if err := s.documents.SetConversionError(writeCtx, documentID, msg); err != nil {
		log.Error("failed to record conversion error", "conversion_error", msg, "error", err)
	}
}

// interrupted reports whether err stems from ctx being cancelled or timing out
// rather than from the document itself
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func conversionLockName(documentID int64) string {
	return fmt.Sprintf("conversion:document:%d", documentID)
}

// truncateTitle keeps lesson titles within the storage limit
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxLessonTitleLength {
		return title
	}
	return string(runes[:maxLessonTitleLength])
}
