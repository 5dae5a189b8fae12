package model

import "time"

// User represents an account on the platform. Email is the sole login
// identifier; there is no separate username. Role flags are independent
// booleans: an account may be student and teacher at once, or neither.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:64;not null"`
	LastName     string    `json:"last_name" gorm:"size:64;not null"`
	IsStudent    bool      `json:"is_student" gorm:"default:true"`
	IsTeacher    bool      `json:"is_teacher" gorm:"default:false"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	IsStaff      bool      `json:"is_staff" gorm:"default:false"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentProfile is a one-to-one row kept in sync with User.IsStudent.
// Deleting the user removes it through the foreign-key cascade.
type StudentProfile struct {
	UserID uint `json:"user_id" gorm:"primaryKey"`
	User   User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TeacherProfile is a one-to-one row kept in sync with User.IsTeacher.
type TeacherProfile struct {
	UserID uint `json:"user_id" gorm:"primaryKey"`
	User   User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
