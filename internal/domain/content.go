package domain

import "time"

// CategoryItem is a row of any named category: dice actions and parts,
// places, times, and the six story elements.
type CategoryItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pose is a named category item with an optional illustration and description.
type Pose struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ImagePath   *string   `json:"image_path"`
	Description *string   `json:"description"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is a free-text challenge. Tasks are ordered by id, not sort_order.
type Task struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryPatch is a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Name      *string
	SortOrder *int
	IsActive  *bool
}

// Empty reports whether the patch changes nothing.
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.SortOrder == nil && p.IsActive == nil
}

// PosePatch is a partial pose update.
type PosePatch struct {
	CategoryPatch
	ImagePath   *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p PosePatch) Empty() bool {
	return p.CategoryPatch.Empty() && p.ImagePath == nil && p.Description == nil
}

// TaskPatch is a partial task update.
type TaskPatch struct {
	Description *string
	IsActive    *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Description == nil && p.IsActive == nil
}
