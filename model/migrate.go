package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the platform schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RoleRecord{},
		&User{},
		&Profile{},
		&Course{},
		&Module{},
	)
}

// SeedRoles inserts the role reference rows. Idempotent: existing rows are
// left untouched.
func SeedRoles(db *gorm.DB) error {
	for _, role := range Roles() {
		record := RoleRecord{Name: role.String()}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
