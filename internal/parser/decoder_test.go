package parser

import (
	"testing"
)

func mustDecoder(t *testing.T, names ...string) *Decoder {
	t.Helper()
	d, err := NewDecoderFromNames(nil, names)
	if err != nil {
		t.Fatalf("failed to build decoder: %v", err)
	}
	return d
}

func TestDecoder_UTF8Precedence(t *testing.T) {
	d := mustDecoder(t, DefaultEncodings...)

	// "café ü" in UTF-8 would also decode under Latin-1, as "cafÃ© Ã¼"
	text, enc, ok := d.Decode([]byte("caf\xc3\xa9 \xc3\xbc"))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if enc != EncodingUTF8 {
		t.Errorf("expected utf-8, got %s", enc)
	}
	if text != "café ü" {
		t.Errorf("expected %q, got %q", "café ü", text)
	}
}

func TestDecoder_UTF8KeepsBOM(t *testing.T) {
	d := mustDecoder(t, DefaultEncodings...)

	text, enc, ok := d.Decode([]byte("\xef\xbb\xbfhello"))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if enc != EncodingUTF8 {
		t.Errorf("expected utf-8, got %s", enc)
	}
	if text != "\ufeffhello" {
		t.Errorf("expected BOM to be kept, got %q", text)
	}
}

func TestDecoder_UTF8SigStripsBOM(t *testing.T) {
	d := mustDecoder(t, EncodingUTF8SIG)

	text, enc, ok := d.Decode([]byte("\xef\xbb\xbfhello"))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if enc != EncodingUTF8SIG {
		t.Errorf("expected utf-8-sig, got %s", enc)
	}
	if text != "hello" {
		t.Errorf("expected BOM to be stripped, got %q", text)
	}
}

func TestDecoder_FallsBackToLatin1(t *testing.T) {
	d := mustDecoder(t, DefaultEncodings...)

	text, enc, ok := d.Decode([]byte("caf\xe9"))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if enc != EncodingLatin1 {
		t.Errorf("expected latin-1, got %s", enc)
	}
	if text != "café" {
		t.Errorf("expected %q, got %q", "café", text)
	}
}

func TestDecoder_CP1252(t *testing.T) {
	d := mustDecoder(t, EncodingUTF8, EncodingCP1252)

	text, enc, ok := d.Decode([]byte("\x93quoted\x94"))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if enc != EncodingCP1252 {
		t.Errorf("expected cp1252, got %s", enc)
	}
	if text != "“quoted”" {
		t.Errorf("expected curly quotes, got %q", text)
	}
}

func TestDecoder_CP1252RejectsUndefinedBytes(t *testing.T) {
	d := mustDecoder(t, EncodingCP1252)

	if _, _, ok := d.Decode([]byte("bad \x81 byte")); ok {
		t.Error("expected 0x81 to be rejected by cp1252")
	}
}

func TestDecoder_AllFail(t *testing.T) {
	d := mustDecoder(t, EncodingUTF8, EncodingUTF8SIG)

	text, enc, ok := d.Decode([]byte{0xff, 0xfe, 0xfd})
	if ok {
		t.Fatal("expected decode to fail")
	}
	if text != "" || enc != "" {
		t.Errorf("expected empty results, got %q %q", text, enc)
	}
}

func TestDecoder_Encodings(t *testing.T) {
	d := mustDecoder(t, "UTF8", "latin1", "windows-1252")

	got := d.Encodings()
	want := []string{EncodingUTF8, EncodingLatin1, EncodingCP1252}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLookupEncoding_Unknown(t *testing.T) {
	if _, err := LookupEncoding("ebcdic"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
