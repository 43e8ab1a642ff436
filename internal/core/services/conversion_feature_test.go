package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven/mocks"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
	"github.com/edutech/edutech-core/internal/parser"
)

// conversionWorld holds the state shared by the steps of one scenario
type conversionWorld struct {
	documents  *mocks.MockDocumentStore
	lessons    *mocks.MockLessonStore
	categories *mocks.MockCategoryStore
	files      *mocks.MockFileStore

	conversion driving.ConversionService
	docs       driving.DocumentService

	nextID   int64
	lesson   *domain.Lesson
	document *domain.Document
	content  []byte
	removed  []byte
	result   *domain.ConversionResult
}

func newConversionWorld() (*conversionWorld, error) {
	w := &conversionWorld{
		documents:  mocks.NewMockDocumentStore(),
		lessons:    mocks.NewMockLessonStore(),
		categories: mocks.NewMockCategoryStore(),
		files:      mocks.NewMockFileStore(),
		nextID:     1,
	}

	p, err := parser.New(w.files, parser.DefaultConfig())
	if err != nil {
		return nil, err
	}

	w.conversion = NewConversionService(ConversionServiceConfig{
		Documents:  w.documents,
		Lessons:    w.lessons,
		Categories: w.categories,
		Parser:     p,
		Tx:         mocks.NewMockTransactor(w.documents, w.lessons, w.categories),
		Lock:       mocks.NewMockDistributedLock(),
	})
	w.docs = NewDocumentService(DocumentServiceConfig{
		Documents: w.documents,
		Lessons:   w.lessons,
		Files:     w.files,
		Parser:    p,
	})
	return w, nil
}

func (w *conversionWorld) aLessonOwnedBy(title string, userID int64) error {
	now := time.Now()
	w.lesson = &domain.Lesson{ID: w.nextID, UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	w.nextID++
	w.lessons.Put(w.lesson)
	return nil
}

func (w *conversionWorld) userUploaded(userID int64, fileName string, body *godog.DocString) error {
	if w.lesson == nil || !w.lesson.IsOwnedBy(userID) {
		return fmt.Errorf("user %d owns no lesson", userID)
	}
	path := fmt.Sprintf("lesson_%d/%s", w.lesson.ID, fileName)
	w.content = []byte(body.Content)
	w.files.Put(path, w.content)

	w.document = &domain.Document{
		ID:               100 + w.nextID,
		LessonID:         w.lesson.ID,
		OriginalFilename: fileName,
		FileType:         domain.FileExtension(fileName),
		FilePath:         path,
		UploadedAt:       time.Now(),
	}
	w.nextID++
	w.documents.Put(w.document)
	return nil
}

func (w *conversionWorld) storedFileIsMissing() error {
	w.removed = w.content
	return w.files.Delete(context.Background(), w.document.FilePath)
}

func (w *conversionWorld) storedFileIsRestored() error {
	w.files.Put(w.document.FilePath, w.removed)
	return nil
}

func (w *conversionWorld) userConverts(userID int64) error {
	w.result = w.conversion.Convert(context.Background(), domain.ConvertRequest{
		DocumentID:      w.document.ID,
		UserID:          userID,
		GenerateSummary: true,
	})
	return nil
}

func (w *conversionWorld) userConvertsWithoutSummary(userID int64) error {
	w.result = w.conversion.Convert(context.Background(), domain.ConvertRequest{
		DocumentID: w.document.ID,
		UserID:     userID,
	})
	return nil
}

func (w *conversionWorld) userClearsError(userID int64) error {
	_, err := w.docs.ClearConversionError(context.Background(), userID, w.document.ID)
	return err
}

func (w *conversionWorld) conversionSucceeds() error {
	if w.result == nil || !w.result.OK() {
		return fmt.Errorf("expected success, got %+v", w.result)
	}
	return nil
}

func (w *conversionWorld) conversionFails(code, message string) error {
	if w.result == nil || w.result.OK() {
		return fmt.Errorf("expected failure, got %+v", w.result)
	}
	if string(w.result.Code) != code {
		return fmt.Errorf("expected code %q, got %q", code, w.result.Code)
	}
	if w.result.Error != message {
		return fmt.Errorf("expected message %q, got %q", message, w.result.Error)
	}
	if w.result.LessonID != nil {
		return fmt.Errorf("failed conversion must not report a lesson")
	}
	return nil
}

func (w *conversionWorld) convertedLesson() (*domain.Lesson, error) {
	if w.result == nil || w.result.LessonID == nil {
		return nil, fmt.Errorf("no lesson was created")
	}
	return w.lessons.Get(context.Background(), *w.result.LessonID)
}

func (w *conversionWorld) lessonTitledExistsFor(title string, userID int64) error {
	lesson, err := w.convertedLesson()
	if err != nil {
		return err
	}
	if lesson.Title != title {
		return fmt.Errorf("expected title %q, got %q", title, lesson.Title)
	}
	if !lesson.IsOwnedBy(userID) {
		return fmt.Errorf("lesson belongs to user %d", lesson.UserID)
	}
	return nil
}

func (w *conversionWorld) lessonContentEqualsUpload() error {
	lesson, err := w.convertedLesson()
	if err != nil {
		return err
	}
	if lesson.Content == nil || *lesson.Content != string(w.content) {
		return fmt.Errorf("lesson content does not match the uploaded text")
	}
	return nil
}

func (w *conversionWorld) lessonHasSummary() error {
	lesson, err := w.convertedLesson()
	if err != nil {
		return err
	}
	if lesson.Summary == nil || *lesson.Summary == "" {
		return fmt.Errorf("expected a summary")
	}
	return nil
}

func (w *conversionWorld) lessonHasNoSummary() error {
	lesson, err := w.convertedLesson()
	if err != nil {
		return err
	}
	if lesson.Summary != nil {
		return fmt.Errorf("expected no summary, got %q", *lesson.Summary)
	}
	return nil
}

func (w *conversionWorld) lessonBelongsToCategory(name string) error {
	lesson, err := w.convertedLesson()
	if err != nil {
		return err
	}
	if lesson.CategoryID == nil {
		return fmt.Errorf("lesson has no category")
	}
	category, err := w.categories.GetOwned(context.Background(), *lesson.CategoryID, lesson.UserID)
	if err != nil {
		return err
	}
	if category.Name != name {
		return fmt.Errorf("expected category %q, got %q", name, category.Name)
	}
	return nil
}

func (w *conversionWorld) currentDocument() (*domain.Document, error) {
	return w.documents.Get(context.Background(), w.document.ID)
}

func (w *conversionWorld) documentIsConverted() error {
	doc, err := w.currentDocument()
	if err != nil {
		return err
	}
	if !doc.Converted || doc.ConvertedLessonID == nil || doc.ConversionError != nil {
		return fmt.Errorf("document not marked as converted: %+v", doc.Status())
	}
	return nil
}

func (w *conversionWorld) documentRecordsError(message string) error {
	doc, err := w.currentDocument()
	if err != nil {
		return err
	}
	if doc.ConversionError == nil || *doc.ConversionError != message {
		return fmt.Errorf("expected recorded error %q, got %v", message, doc.ConversionError)
	}
	return nil
}

func (w *conversionWorld) documentHasNoError() error {
	doc, err := w.currentDocument()
	if err != nil {
		return err
	}
	if doc.ConversionError != nil {
		return fmt.Errorf("unexpected recorded error %q", *doc.ConversionError)
	}
	return nil
}

func (w *conversionWorld) documentCannotBeConverted() error {
	doc, err := w.currentDocument()
	if err != nil {
		return err
	}
	if doc.CanConvert() {
		return fmt.Errorf("document should not be convertible")
	}
	return nil
}

func (w *conversionWorld) storedFileNeverRead() error {
	if w.files.ReadCount != 0 {
		return fmt.Errorf("storage was read %d times", w.files.ReadCount)
	}
	return nil
}

func initializeConversionScenario(sc *godog.ScenarioContext) {
	var w *conversionWorld

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		var err error
		w, err = newConversionWorld()
		return ctx, err
	})

	sc.Step(`^a lesson "([^"]*)" owned by user (\d+)$`, func(title string, userID int64) error {
		return w.aLessonOwnedBy(title, userID)
	})
	sc.Step(`^user (\d+) uploaded "([^"]*)" to that lesson with content:$`, func(userID int64, name string, body *godog.DocString) error {
		return w.userUploaded(userID, name, body)
	})
	sc.Step(`^the stored file of the document is missing$`, func() error { return w.storedFileIsMissing() })
	sc.Step(`^the stored file is restored$`, func() error { return w.storedFileIsRestored() })
	sc.Step(`^user (\d+) converts the document$`, func(userID int64) error { return w.userConverts(userID) })
	sc.Step(`^user (\d+) converts the document without a summary$`, func(userID int64) error {
		return w.userConvertsWithoutSummary(userID)
	})
	sc.Step(`^user (\d+) clears the conversion error$`, func(userID int64) error { return w.userClearsError(userID) })
	sc.Step(`^the conversion succeeds$`, func() error { return w.conversionSucceeds() })
	sc.Step(`^the conversion fails with code "([^"]*)" and message "([^"]*)"$`, func(code, message string) error {
		return w.conversionFails(code, message)
	})
	sc.Step(`^a lesson titled "([^"]*)" exists for user (\d+)$`, func(title string, userID int64) error {
		return w.lessonTitledExistsFor(title, userID)
	})
	sc.Step(`^the lesson content equals the uploaded text$`, func() error { return w.lessonContentEqualsUpload() })
	sc.Step(`^the lesson has a summary$`, func() error { return w.lessonHasSummary() })
	sc.Step(`^the lesson has no summary$`, func() error { return w.lessonHasNoSummary() })
	sc.Step(`^the lesson belongs to category "([^"]*)"$`, func(name string) error { return w.lessonBelongsToCategory(name) })
	sc.Step(`^the document is marked as converted$`, func() error { return w.documentIsConverted() })
	sc.Step(`^the document records the error "([^"]*)"$`, func(message string) error { return w.documentRecordsError(message) })
	sc.Step(`^the document has no recorded error$`, func() error { return w.documentHasNoError() })
	sc.Step(`^the document cannot be converted$`, func() error { return w.documentCannotBeConverted() })
	sc.Step(`^the stored file was never read$`, func() error { return w.storedFileNeverRead() })
}

func TestConversionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "conversion",
		ScenarioInitializer: initializeConversionScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
