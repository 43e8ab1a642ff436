package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// UploadExtensions lists the file types accepted at upload time.
// Only a subset of these can be converted into lessons.
var UploadExtensions = []string{".txt", ".md", ".docx", ".pdf", ".html"}

// Document is an uploaded file attached to a container lesson
type Document struct {
	ID               int64     `json:"id"`
	LessonID         int64     `json:"lesson_id"` // Container lesson, determines ownership
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"` // Lower-cased extension including the dot
	FilePath         string    `json:"file_path"` // Key in the file store
	UploadedAt       time.Time `json:"uploaded_at"`

	Converted         bool    `json:"converted"`
	ConvertedLessonID *int64  `json:"converted_lesson_id,omitempty"`
	ConversionError   *string `json:"conversion_error,omitempty"`
}

// CanConvert reports whether a conversion may be offered for the document.
// A recorded error blocks the offer until it is cleared.
func (d *Document) CanConvert() bool {
	return !d.Converted && d.ConversionError == nil
}

// Status projects the conversion state of the document
func (d *Document) Status() *ConversionStatus {
	return &ConversionStatus{
		DocumentID:        d.ID,
		Converted:         d.Converted,
		ConvertedLessonID: d.ConvertedLessonID,
		ConversionError:   d.ConversionError,
		CanConvert:        d.CanConvert(),
	}
}

// ConversionStatus is the read-only view of a document's conversion state
type ConversionStatus struct {
	DocumentID        int64   `json:"document_id"`
	Converted         bool    `json:"converted"`
	ConvertedLessonID *int64  `json:"converted_lesson_id"`
	ConversionError   *string `json:"conversion_error"`
	CanConvert        bool    `json:"can_convert"`
	// CanParse reports whether the file format is understood by the parser.
	// It is filled in by the document service.
	CanParse bool `json:"can_parse"`
}

// FileExtension returns the lower-cased extension of a file name, including the dot
func FileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsAllowedUpload checks the file name against UploadExtensions
func IsAllowedUpload(name string) bool {
	ext := FileExtension(name)
	for _, allowed := range UploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
