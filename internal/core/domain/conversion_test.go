package domain

import "testing"

func TestConversionSucceeded(t *testing.T) {
	result := ConversionSucceeded(17)

	if !result.OK() {
		t.Error("expected OK()")
	}
	if result.Status != ConversionSuccess {
		t.Errorf("expected status success, got %s", result.Status)
	}
	if result.LessonID == nil || *result.LessonID != 17 {
		t.Errorf("expected lesson 17, got %v", result.LessonID)
	}
	if result.Error != "" {
		t.Errorf("expected no error, got %q", result.Error)
	}
}

func TestConversionFailedWith(t *testing.T) {
	result := ConversionFailedWith(CodeNotFound, MsgDocumentNotFound)

	if result.OK() {
		t.Error("expected failure")
	}
	if result.LessonID != nil {
		t.Error("failed results carry no lesson")
	}
	if result.Error != "Document not found" {
		t.Errorf("unexpected error %q", result.Error)
	}
	if result.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, result.Code)
	}
}
