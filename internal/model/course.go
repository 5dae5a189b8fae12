package model

// Course belongs to a category and carries lessons through a join table.
// The slug is server-assigned, re-derived from the title on every save.
type Course struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"size:120;index"`
	Title       string    `json:"title" gorm:"size:120;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  *uint     `json:"category,omitempty"`
	Category    *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Lessons     []Lesson  `json:"lessons,omitempty" gorm:"many2many:course_lessons"`
}
