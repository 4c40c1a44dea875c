package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the portal uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&EstimateRequest{},
		&Project{},
		&ProjectMessage{},
		&ProjectUpload{},
	)
}
