package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutech/edutech-core/internal/core/domain"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return &DB{DB: sqlDB}, mock
}

var documentRowColumns = []string{
	"id", "lesson_id", "original_filename", "file_type", "file_path", "uploaded_at",
	"converted", "converted_lesson_id", "conversion_error",
}

func TestDocumentStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDocumentStore(db)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(int64(10), "notes.md", ".md", "lesson_10/abc_notes.md", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	doc := &domain.Document{
		LessonID:         10,
		OriginalFilename: "notes.md",
		FileType:         ".md",
		FilePath:         "lesson_10/abc_notes.md",
		UploadedAt:       time.Now(),
	}
	require.NoError(t, store.Create(context.Background(), doc))
	assert.Equal(t, int64(7), doc.ID)
}

func TestDocumentStore_Get(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDocumentStore(db)
	now := time.Now()

	mock.ExpectQuery("FROM documents WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(int64(7), int64(10), "notes.md", ".md", "lesson_10/abc_notes.md", now, false, nil, "Failed to parse document: boom"))

	doc, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", doc.OriginalFilename)
	assert.False(t, doc.Converted)
	assert.Nil(t, doc.ConvertedLessonID)
	require.NotNil(t, doc.ConversionError)
	assert.Equal(t, "Failed to parse document: boom", *doc.ConversionError)
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDocumentStore(db)

	mock.ExpectQuery("FROM documents WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListByLesson(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDocumentStore(db)
	now := time.Now()

	mock.ExpectQuery("FROM documents").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(int64(2), int64(10), "b.txt", ".txt", "lesson_10/b.txt", now, true, int64(11), nil).
			AddRow(int64(1), int64(10), "a.txt", ".txt", "lesson_10/a.txt", now, false, nil, nil))

	docs, err := store.ListByLesson(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.True(t, docs[0].Converted)
	require.NotNil(t, docs[0].ConvertedLessonID)
	assert.Equal(t, int64(11), *docs[0].ConvertedLessonID)
	assert.Nil(t, docs[1].ConversionError)
}

func TestDocumentStore_MarkConverted(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "unconverted document is updated",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE documents").
					WithArgs(int64(11), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "lost race reports already converted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE documents").
					WithArgs(int64(11), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT converted FROM documents").
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"converted"}).AddRow(true))
			},
			wantErr: domain.ErrAlreadyConverted,
		},
		{
			name: "missing document",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE documents").
					WithArgs(int64(11), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT converted FROM documents").
					WithArgs(int64(7)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			err := NewDocumentStore(db).MarkConverted(context.Background(), 7, 11)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDocumentStore_ConversionError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewDocumentStore(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE documents SET conversion_error").
		WithArgs("Failed to parse document: boom", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE documents SET conversion_error = NULL").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE documents SET conversion_error = NULL").
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.SetConversionError(ctx, 7, "Failed to parse document: boom"))
	require.NoError(t, store.ClearConversionError(ctx, 7))
	assert.ErrorIs(t, store.ClearConversionError(ctx, 8), domain.ErrNotFound)
}

func TestDB_InTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		lessons := NewLessonStore(db)
		documents := NewDocumentStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO lessons").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectExec("UPDATE documents").
			WithArgs(int64(11), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := db.InTx(context.Background(), func(ctx context.Context) error {
			lesson := &domain.Lesson{UserID: 1, Title: "Notes", CreatedAt: time.Now(), UpdatedAt: time.Now()}
			if err := lessons.Create(ctx, lesson); err != nil {
				return err
			}
			return documents.MarkConverted(ctx, 7, lesson.ID)
		})
		require.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock := newMockDB(t)
		lessons := NewLessonStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO lessons").
			WillReturnError(errors.New("insert failed"))
		mock.ExpectRollback()

		err := db.InTx(context.Background(), func(ctx context.Context) error {
			return lessons.Create(ctx, &domain.Lesson{UserID: 1, Title: "Notes"})
		})
		assert.EqualError(t, err, "insert failed")
	})

	t.Run("nested joins outer transaction", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := db.InTx(context.Background(), func(ctx context.Context) error {
			return db.InTx(ctx, func(ctx context.Context) error {
				calls++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestLessonStore_GetOwned(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewLessonStore(db)
	now := time.Now()
	columns := []string{"id", "user_id", "category_id", "title", "content", "summary", "created_at", "updated_at"}

	mock.ExpectQuery("FROM lessons WHERE id").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(10), int64(1), int64(3), "Algorithms", "body", nil, now, now))
	mock.ExpectQuery("FROM lessons WHERE id").
		WithArgs(int64(10), int64(2)).
		WillReturnError(sql.ErrNoRows)

	lesson, err := store.GetOwned(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", lesson.Title)
	require.NotNil(t, lesson.CategoryID)
	assert.Equal(t, int64(3), *lesson.CategoryID)
	require.NotNil(t, lesson.Content)
	assert.Nil(t, lesson.Summary)

	_, err = store.GetOwned(context.Background(), 10, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryStore_FindByName(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewCategoryStore(db)
	columns := []string{"id", "user_id", "name", "description", "created_at"}

	mock.ExpectQuery("FROM categories").
		WithArgs(int64(1), domain.DefaultCategoryName).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(4), int64(1), domain.DefaultCategoryName, domain.DefaultCategoryDescription, time.Now()))
	mock.ExpectQuery("FROM categories").
		WithArgs(int64(2), domain.DefaultCategoryName).
		WillReturnError(sql.ErrNoRows)

	category, err := store.FindByName(context.Background(), 1, domain.DefaultCategoryName)
	require.NoError(t, err)
	assert.Equal(t, int64(4), category.ID)
	require.NotNil(t, category.Description)

	_, err = store.FindByName(context.Background(), 2, domain.DefaultCategoryName)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStore_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewUserStore(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := store.Create(context.Background(), &domain.User{Email: "a@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSessionStore_GetByToken(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSessionStore(db)
	expires := time.Now().Add(time.Hour)
	columns := []string{"id", "user_id", "token", "expires_at", "created_at", "user_agent", "ip_address"}

	mock.ExpectQuery("FROM sessions WHERE token").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("sess-1", int64(1), "tok", expires, time.Now(), "curl", "127.0.0.1"))

	session, err := store.GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, int64(1), session.UserID)
}

func TestSchema_DocumentConstraints(t *testing.T) {
	assert.Contains(t, schema, "CHECK (NOT (converted AND conversion_error IS NOT NULL))")
	assert.Contains(t, schema, "CHECK (NOT converted OR converted_lesson_id IS NOT NULL)")
	assert.Contains(t, schema, "converted_lesson_id BIGINT REFERENCES lessons(id) ON DELETE NO ACTION")
	assert.NotContains(t, schema, "converted_lesson_id BIGINT REFERENCES lessons(id) ON DELETE SET NULL")
}

func TestDB_InitSchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, db.InitSchema(context.Background()))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))
	err := db.InitSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize schema")
}
