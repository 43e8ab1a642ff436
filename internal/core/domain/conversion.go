package domain

// Messages returned to callers of a conversion. They are shown to users as-is.
const (
	MsgDocumentNotFound     = "Document not found"
	MsgAlreadyConverted     = "Document has already been converted"
	MsgAccessDenied         = "Access denied or lesson not found"
	MsgConversionInProgress = "Document conversion is already in progress"
	ParseFailurePrefix      = "Failed to parse document: "
	UnexpectedErrorPrefix   = "Unexpected error during conversion: "
)

// ConversionStatusKind is the tag of a ConversionResult
type ConversionStatusKind string

const (
	ConversionSuccess ConversionStatusKind = "success"
	ConversionFailed  ConversionStatusKind = "failed"
)

// ConversionCode is a machine-readable reason attached to failed conversions
type ConversionCode string

const (
	CodeNone             ConversionCode = ""
	CodeNotFound         ConversionCode = "not_found"
	CodeAlreadyConverted ConversionCode = "already_converted"
	CodeAccessDenied     ConversionCode = "access_denied"
	CodeInProgress       ConversionCode = "in_progress"
	CodeParseFailed      ConversionCode = "parse_failed"
	CodeStorageFailure   ConversionCode = "storage_failure"
)

// ConvertRequest carries the inputs of a conversion
type ConvertRequest struct {
	DocumentID      int64  `json:"document_id"`
	UserID          int64  `json:"user_id"`
	CategoryID      *int64 `json:"category_id,omitempty"`
	GenerateSummary bool   `json:"generate_summary"`
}

// ConvertLessonRequest asks for every convertible document of a lesson to be
// converted in the background with the same options
type ConvertLessonRequest struct {
	LessonID        int64  `json:"lesson_id"`
	UserID          int64  `json:"user_id"`
	CategoryID      *int64 `json:"category_id,omitempty"`
	GenerateSummary bool   `json:"generate_summary"`
}

// ForDocument derives the single-document request for documentID
func (r ConvertLessonRequest) ForDocument(documentID int64) ConvertRequest {
	return ConvertRequest{
		DocumentID:      documentID,
		UserID:          r.UserID,
		CategoryID:      r.CategoryID,
		GenerateSummary: r.GenerateSummary,
	}
}

// ConversionResult is either Success with a lesson id or Failed with a message
type ConversionResult struct {
	Status   ConversionStatusKind `json:"status"`
	LessonID *int64               `json:"lesson_id,omitempty"`
	Error    string               `json:"error,omitempty"`
	Code     ConversionCode       `json:"code,omitempty"`
}

// ConversionSucceeded builds a Success result
func ConversionSucceeded(lessonID int64) *ConversionResult {
	return &ConversionResult{Status: ConversionSuccess, LessonID: &lessonID}
}

// ConversionFailedWith builds a Failed result
func ConversionFailedWith(code ConversionCode, msg string) *ConversionResult {
	return &ConversionResult{Status: ConversionFailed, Error: msg, Code: code}
}

// OK reports whether the conversion succeeded
func (r *ConversionResult) OK() bool {
	return r.Status == ConversionSuccess
}
