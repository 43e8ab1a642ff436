package domain

import "testing"

func TestLessonIsOwnedBy(t *testing.T) {
	lesson := &Lesson{ID: 1, UserID: 5}

	if !lesson.IsOwnedBy(5) {
		t.Error("expected lesson to be owned by user 5")
	}
	if lesson.IsOwnedBy(6) {
		t.Error("expected lesson not to be owned by user 6")
	}
}

func TestNewDefaultCategory(t *testing.T) {
	category := NewDefaultCategory(12)

	if category.UserID != 12 {
		t.Errorf("expected user 12, got %d", category.UserID)
	}
	if category.Name != "Imported Documents" {
		t.Errorf("expected name 'Imported Documents', got %q", category.Name)
	}
	if category.Description == nil || *category.Description != "Documents automatically converted to lessons" {
		t.Errorf("unexpected description %v", category.Description)
	}
	if category.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}
