package domain

// ParseResult is the transient outcome of parsing a document
type ParseResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// ParseErrorKind classifies parser failures
type ParseErrorKind string

const (
	ParseErrUnsupportedFormat ParseErrorKind = "unsupported_format"
	ParseErrFileNotFound      ParseErrorKind = "file_not_found"
	ParseErrEmptyContent      ParseErrorKind = "empty_content"
	ParseErrDecode            ParseErrorKind = "decode_error"
)

// ParseError is returned by the document parser.
// Message is user-displayable and is persisted on the document.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
}

// NewParseError creates a parse error of the given kind
func NewParseError(kind ParseErrorKind, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message}
}

func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap maps the kind onto its sentinel so errors.Is works
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case ParseErrUnsupportedFormat:
		return ErrUnsupportedFormat
	case ParseErrFileNotFound:
		return ErrFileNotFound
	case ParseErrEmptyContent:
		return ErrEmptyContent
	case ParseErrDecode:
		return ErrDecode
	default:
		return nil
	}
}
