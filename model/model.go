package model

import (
	"time"
)

// RoleRecord is the roles reference table, seeded at startup.
type RoleRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName keeps the table name in line with the platform schema.
func (RoleRecord) TableName() string {
	return "roles"
}

// User is a principal. The credential hash is never serialized and never
// logged.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Handle       string     `gorm:"uniqueIndex;not null" json:"handle"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	RoleID       uint       `gorm:"not null" json:"-"`
	Role         RoleRecord `gorm:"foreignKey:RoleID" json:"role"`
	Profile      *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Profile holds the optional profile row attached to a user. Deleted with
// the user via foreign-key cascade.
type Profile struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"uniqueIndex;not null" json:"-"`
	FirstName      string `gorm:"not null" json:"first_name"`
	LastName       string `gorm:"not null" json:"last_name"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

// Course belongs to an instructor. Present for cascade semantics only; the
// service exposes no course CRUD.
type Course struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Title        string   `gorm:"not null" json:"title"`
	InstructorID uint     `gorm:"not null" json:"-"`
	Instructor   User     `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"-"`
	Modules      []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module is a unit of a course.
type Module struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"not null" json:"-"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `json:"content,omitempty"`
}

func (Module) TableName() string {
	return "course_modules"
}
