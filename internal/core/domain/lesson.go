package domain

import "time"

const (
	// DefaultCategoryName is used when a conversion does not name a category
	DefaultCategoryName = "Imported Documents"

	// DefaultCategoryDescription describes the fallback category
	DefaultCategoryDescription = "Documents automatically converted to lessons"
)

// Lesson is a unit of study content owned by a user
type Lesson struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	Content    *string   `json:"content,omitempty"`
	Summary    *string   `json:"summary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether the lesson belongs to the user
func (l *Lesson) IsOwnedBy(userID int64) bool {
	return l.UserID == userID
}

// Category groups lessons for a user.
// Names are not unique per user.
type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDefaultCategory builds the fallback category for a user
func NewDefaultCategory(userID int64) *Category {
	desc := DefaultCategoryDescription
	return &Category{
		UserID:      userID,
		Name:        DefaultCategoryName,
		Description: &desc,
		CreatedAt:   time.Now(),
	}
}
