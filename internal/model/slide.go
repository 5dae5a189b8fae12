package model

// Slide is a single page of lesson content, addressed by lesson + position.
type Slide struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Title    string  `json:"title" gorm:"size:200;not null"`
	Slug     string  `json:"slug" gorm:"size:200;index"`
	LessonID *uint   `json:"lesson,omitempty"`
	Lesson   *Lesson `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:SET NULL"`
	Position int     `json:"position"`
	Content  string  `json:"content" gorm:"type:text"`
}
