package model

type Category struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	ParentID *int64 `db:"parent_id" json:"parent_id"` // Nullable
}

// CategoryRelation is one row of the closure table: ancestor reaches
// descendant in Depth edges. Every category owns a (self, self, 0) row.
type CategoryRelation struct {
	ID           int64 `db:"id" json:"id"`
	AncestorID   int64 `db:"ancestor_id" json:"ancestor_id"`
	DescendantID int64 `db:"descendant_id" json:"descendant_id"`
	Depth        int   `db:"depth" json:"depth"`
}
