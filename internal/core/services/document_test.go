package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven/mocks"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

func newTestDocumentService() (*mocks.MockDocumentStore, *mocks.MockLessonStore, *mocks.MockFileStore, *mocks.MockDocumentParser, driving.DocumentService) {
	documents := mocks.NewMockDocumentStore()
	lessons := mocks.NewMockLessonStore()
	files := mocks.NewMockFileStore()
	parser := mocks.NewMockDocumentParser(&domain.ParseResult{Title: "Notes", Content: "body", Summary: "body"})

	now := time.Now()
	lessons.Put(&domain.Lesson{ID: testLessonID, UserID: testUserID, Title: "Algorithms", CreatedAt: now, UpdatedAt: now})

	svc := NewDocumentService(DocumentServiceConfig{
		Documents: documents,
		Lessons:   lessons,
		Files:     files,
		Parser:    parser,
	})
	return documents, lessons, files, parser, svc
}

func TestDocumentService_Upload(t *testing.T) {
	documents, _, files, _, svc := newTestDocumentService()
	ctx := context.Background()

	doc, err := svc.Upload(ctx, driving.UploadRequest{
		UserID:   testUserID,
		LessonID: testLessonID,
		FileName: "Week_1.MD",
		Content:  strings.NewReader("# Week 1"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if doc.OriginalFilename != "Week_1.MD" {
		t.Errorf("expected original filename kept, got %q", doc.OriginalFilename)
	}
	if doc.FileType != ".md" {
		t.Errorf("expected file type .md, got %q", doc.FileType)
	}
	if !strings.HasPrefix(doc.FilePath, "lesson_10/") || !strings.HasSuffix(doc.FilePath, "_Week_1.MD") {
		t.Errorf("unexpected file path %q", doc.FilePath)
	}
	if !files.Has(doc.FilePath) {
		t.Error("expected file to be stored")
	}
	if doc.Converted || doc.ConversionError != nil {
		t.Error("new documents start unconverted without error")
	}
	if documents.Count() != 1 {
		t.Errorf("expected 1 document, got %d", documents.Count())
	}
}

func TestDocumentService_Upload_Validation(t *testing.T) {
	_, _, _, _, svc := newTestDocumentService()

	tests := []struct {
		name     string
		req      driving.UploadRequest
		expected error
	}{
		{
			name:     "empty file name",
			req:      driving.UploadRequest{UserID: testUserID, LessonID: testLessonID, FileName: "  ", Content: strings.NewReader("x")},
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "missing content",
			req:      driving.UploadRequest{UserID: testUserID, LessonID: testLessonID, FileName: "a.txt"},
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "disallowed extension",
			req:      driving.UploadRequest{UserID: testUserID, LessonID: testLessonID, FileName: "virus.exe", Content: strings.NewReader("x")},
			expected: domain.ErrUnsupportedUpload,
		},
		{
			name:     "foreign lesson",
			req:      driving.UploadRequest{UserID: otherUserID, LessonID: testLessonID, FileName: "a.txt", Content: strings.NewReader("x")},
			expected: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.req)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestDocumentService_Upload_StripsDirectories(t *testing.T) {
	_, _, _, _, svc := newTestDocumentService()

	doc, err := svc.Upload(context.Background(), driving.UploadRequest{
		UserID:   testUserID,
		LessonID: testLessonID,
		FileName: `..\..\etc\notes.txt`,
		Content:  strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.OriginalFilename != "notes.txt" {
		t.Errorf("expected notes.txt, got %q", doc.OriginalFilename)
	}
}

func TestDocumentService_GetAndList(t *testing.T) {
	documents, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	documents.Put(&domain.Document{ID: 1, LessonID: testLessonID, OriginalFilename: "a.txt", FilePath: "lesson_10/a.txt"})
	documents.Put(&domain.Document{ID: 2, LessonID: testLessonID, OriginalFilename: "b.txt", FilePath: "lesson_10/b.txt"})

	doc, err := svc.Get(ctx, testUserID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.OriginalFilename != "a.txt" {
		t.Errorf("expected a.txt, got %q", doc.OriginalFilename)
	}

	if _, err := svc.Get(ctx, otherUserID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign user, got %v", err)
	}
	if _, err := svc.Get(ctx, testUserID, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	docs, err := svc.ListByLesson(ctx, testUserID, testLessonID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}

	if _, err := svc.ListByLesson(ctx, otherUserID, testLessonID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign lesson, got %v", err)
	}
}

func TestDocumentService_Delete(t *testing.T) {
	documents, _, files, _, svc := newTestDocumentService()
	ctx := context.Background()

	documents.Put(&domain.Document{ID: 1, LessonID: testLessonID, OriginalFilename: "a.txt", FilePath: "lesson_10/a.txt"})
	files.Put("lesson_10/a.txt", []byte("hello"))

	if err := svc.Delete(ctx, otherUserID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign user, got %v", err)
	}
	if documents.Count() != 1 {
		t.Fatal("foreign delete must not remove the document")
	}

	if err := svc.Delete(ctx, testUserID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if documents.Count() != 0 {
		t.Error("expected document to be removed")
	}
	if files.Has("lesson_10/a.txt") {
		t.Error("expected stored file to be removed")
	}
}

func TestDocumentService_Parse(t *testing.T) {
	documents, _, _, parser, svc := newTestDocumentService()
	documents.Put(&domain.Document{ID: 1, LessonID: testLessonID, OriginalFilename: "notes.md", FilePath: "lesson_10/x_notes.md"})

	result, err := svc.Parse(context.Background(), testUserID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Notes" {
		t.Errorf("expected parser result, got %+v", result)
	}
	if len(parser.Calls) != 1 || parser.Calls[0] != [2]string{"lesson_10/x_notes.md", "notes.md"} {
		t.Errorf("unexpected parser calls %v", parser.Calls)
	}
	if documents.Count() != 1 {
		t.Error("parse must not modify documents")
	}
}

func TestDocumentService_ConversionStatusAndClear(t *testing.T) {
	documents, _, _, _, svc := newTestDocumentService()
	ctx := context.Background()

	msg := "Failed to parse document: Document content is empty"
	documents.Put(&domain.Document{ID: 1, LessonID: testLessonID, OriginalFilename: "a.txt", ConversionError: &msg})

	status, err := svc.ConversionStatus(ctx, testUserID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.CanConvert {
		t.Error("documents with a recorded error cannot be converted")
	}
	if status.ConversionError == nil || *status.ConversionError != msg {
		t.Errorf("expected recorded error, got %v", status.ConversionError)
	}

	status, err = svc.ClearConversionError(ctx, testUserID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.CanConvert || status.ConversionError != nil {
		t.Errorf("expected convertible status after clearing, got %+v", status)
	}

	stored, _ := documents.Get(ctx, 1)
	if stored.ConversionError != nil {
		t.Error("expected stored error to be cleared")
	}
}

func TestDocumentService_ClearConversionError_Converted(t *testing.T) {
	documents, _, _, _, svc := newTestDocumentService()
	lessonID := int64(11)
	documents.Put(&domain.Document{ID: 1, LessonID: testLessonID, Converted: true, ConvertedLessonID: &lessonID})

	status, err := svc.ClearConversionError(context.Background(), testUserID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Converted || status.CanConvert {
		t.Errorf("converted documents stay converted, got %+v", status)
	}
	if status.ConvertedLessonID == nil || *status.ConvertedLessonID != lessonID {
		t.Errorf("expected converted lesson id %d", lessonID)
	}
}

func TestDocumentService_ConversionStatus_CanParse(t *testing.T) {
	documents, _, _, parser, svc := newTestDocumentService()
	parser.SupportsFn = func(fileName string) bool {
		return fileName == "notes.md"
	}
	documents.Put(&domain.Document{ID: 1, LessonID: testLessonID, OriginalFilename: "notes.md"})
	documents.Put(&domain.Document{ID: 2, LessonID: testLessonID, OriginalFilename: "slides.pdf"})

	tests := []struct {
		id   int64
		want bool
	}{
		{1, true},
		{2, false},
	}

	for _, tt := range tests {
		status, err := svc.ConversionStatus(context.Background(), testUserID, tt.id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status.CanParse != tt.want {
			t.Errorf("document %d: expected can_parse=%v, got %v", tt.id, tt.want, status.CanParse)
		}
		if !status.CanConvert {
			t.Errorf("document %d: can_convert only reflects conversion state", tt.id)
		}
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"notes.txt", "notes.txt"},
		{"  notes.txt  ", "notes.txt"},
		{"dir/notes.txt", "notes.txt"},
		{`C:\Users\me\notes.txt`, "notes.txt"},
		{"", ""},
		{"/", ""},
		{".", ""},
	}

	for _, tt := range tests {
		if got := cleanFileName(tt.input); got != tt.expected {
			t.Errorf("cleanFileName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
