package model

// Category groups courses. Categories may nest one level at a time through
// the self-referential parent pointer; the slug is unique per parent.
type Category struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	Name     string     `json:"name" gorm:"size:200;not null"`
	Slug     string     `json:"slug" gorm:"size:200;uniqueIndex:idx_category_slug_parent"`
	ParentID *uint      `json:"parent,omitempty" gorm:"uniqueIndex:idx_category_slug_parent"`
	Parent   *Category  `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}
