package dto

type CreateCategoryInput struct {
	Name     string
	ParentID *int64
}

// UpdateCategoryInput renames a category. ParentSet reports whether the
// request named a parent at all; a parent different from the current one is
// rejected.
type UpdateCategoryInput struct {
	ID        int64
	Name      string
	ParentID  *int64
	ParentSet bool
}
