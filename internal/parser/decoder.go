package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names accepted in configuration
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8SIG = "utf-8-sig"
	EncodingLatin1  = "latin-1"
	EncodingCP1252  = "cp1252"
)

// DefaultEncodings is the order in which decoding is attempted
var DefaultEncodings = []string{EncodingUTF8, EncodingUTF8SIG, EncodingLatin1, EncodingCP1252}

// Encoding is one decoding attempt. Decode reports ok=false when the
// bytes are not valid in this encoding; it never returns partial text.
type Encoding interface {
	Name() string
	Decode(data []byte) (text string, ok bool)
}

// LookupEncoding resolves a configured encoding name
func LookupEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EncodingUTF8, "utf8":
		return utf8Encoding{}, nil
	case EncodingUTF8SIG, "utf8-sig", "utf-8-bom":
		return utf8SigEncoding{}, nil
	case EncodingLatin1, "latin1", "iso-8859-1":
		return latin1Encoding{}, nil
	case EncodingCP1252, "windows-1252":
		return cp1252Encoding{}, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

// Decoder tries each encoding in order; the first success wins
type Decoder struct {
	encodings []Encoding
	logger    *slog.Logger
}

// NewDecoder creates a decoder over the given encodings
func NewDecoder(logger *slog.Logger, encodings ...Encoding) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{encodings: encodings, logger: logger}
}

// NewDecoderFromNames resolves encoding names and creates a decoder
func NewDecoderFromNames(logger *slog.Logger, names []string) (*Decoder, error) {
	encodings := make([]Encoding, 0, len(names))
	for _, name := range names {
		enc, err := LookupEncoding(name)
		if err != nil {
			return nil, err
		}
		encodings = append(encodings, enc)
	}
	return NewDecoder(logger, encodings...), nil
}

// Decode returns the text and the name of the encoding that produced it.
// ok is false when every attempt failed.
func (d *Decoder) Decode(data []byte) (text, encodingName string, ok bool) {
	for _, enc := range d.encodings {
		text, ok := enc.Decode(data)
		if ok {
			return text, enc.Name(), true
		}
		d.logger.Debug("decode attempt failed", "encoding", enc.Name(), "bytes", len(data))
	}
	return "", "", false
}

// Encodings returns the attempt order
func (d *Decoder) Encodings() []string {
	names := make([]string, len(d.encodings))
	for i, enc := range d.encodings {
		names[i] = enc.Name()
	}
	return names
}

// utf8Encoding is strict UTF-8. A leading byte order mark is kept as U+FEFF.
type utf8Encoding struct{}

func (utf8Encoding) Name() string { return EncodingUTF8 }

func (utf8Encoding) Decode(data []byte) (string, bool) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// utf8SigEncoding is strict UTF-8 that drops a leading byte order mark
type utf8SigEncoding struct{}

func (utf8SigEncoding) Name() string { return EncodingUTF8SIG }

func (utf8SigEncoding) Decode(data []byte) (string, bool) {
	t := transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// latin1Encoding maps every byte to the code point of the same value
type latin1Encoding struct{}

func (latin1Encoding) Name() string { return EncodingLatin1 }

func (latin1Encoding) Decode(data []byte) (string, bool) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// cp1252Encoding is Windows-1252. Bytes the code page leaves undefined fail.
type cp1252Encoding struct{}

func (cp1252Encoding) Name() string { return EncodingCP1252 }

func (cp1252Encoding) Decode(data []byte) (string, bool) {
	for _, b := range data {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return "", false
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}
