package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

const documentColumns = `id, lesson_id, original_filename, file_type, file_path, uploaded_at,
	converted, converted_lesson_id, conversion_error`

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Create inserts a document and assigns its ID
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (lesson_id, original_filename, file_type, file_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return s.db.conn(ctx).QueryRowContext(ctx, query,
		doc.LessonID,
		doc.OriginalFilename,
		doc.FileType,
		doc.FilePath,
		doc.UploadedAt,
	).Scan(&doc.ID)
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id int64) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(s.db.conn(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByLesson retrieves all documents attached to a container lesson
func (s *DocumentStore) ListByLesson(ctx context.Context, lessonID int64) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE lesson_id = $1
		ORDER BY uploaded_at DESC, id DESC
	`

	rows, err := s.db.conn(ctx).QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete deletes a document
func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.conn(ctx).ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// MarkConverted records the conversion only while the document is still
// unconverted, so two racing conversions cannot both win.
func (s *DocumentStore) MarkConverted(ctx context.Context, id, lessonID int64) error {
	query := `
		UPDATE documents
		SET converted = TRUE, converted_lesson_id = $1, conversion_error = NULL
		WHERE id = $2 AND converted = FALSE
	`

	result, err := s.db.conn(ctx).ExecContext(ctx, query, lessonID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	// Nothing updated: tell a missing document apart from a lost race
	var converted bool
	err = s.db.conn(ctx).QueryRowContext(ctx, `SELECT converted FROM documents WHERE id = $1`, id).Scan(&converted)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if converted {
		return domain.ErrAlreadyConverted
	}
	return fmt.Errorf("document %d was not updated", id)
}

// SetConversionError records why a conversion failed.
// Converted documents are left untouched.
func (s *DocumentStore) SetConversionError(ctx context.Context, id int64, message string) error {
	query := `UPDATE documents SET conversion_error = $1 WHERE id = $2 AND converted = FALSE`
	_, err := s.db.conn(ctx).ExecContext(ctx, query, message, id)
	return err
}

// ClearConversionError removes a recorded error
func (s *DocumentStore) ClearConversionError(ctx context.Context, id int64) error {
	result, err := s.db.conn(ctx).ExecContext(ctx, `UPDATE documents SET conversion_error = NULL WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var convertedLessonID sql.NullInt64
	var conversionError sql.NullString

	err := row.Scan(
		&doc.ID,
		&doc.LessonID,
		&doc.OriginalFilename,
		&doc.FileType,
		&doc.FilePath,
		&doc.UploadedAt,
		&doc.Converted,
		&convertedLessonID,
		&conversionError,
	)
	if err != nil {
		return nil, err
	}

	doc.ConvertedLessonID = Int64Ptr(convertedLessonID)
	doc.ConversionError = StringPtr(conversionError)
	return &doc, nil
}

// expectAffected maps an update or delete that touched no rows to ErrNotFound
func expectAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
