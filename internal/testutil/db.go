// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/petermazzocco/renovation-portal/internal/config"
	"github.com/petermazzocco/renovation-portal/internal/db"
	"github.com/petermazzocco/renovation-portal/models"
)

// NewTestDB opens an in-memory SQLite database with every table migrated.
// It is closed automatically when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewGormDB(&config.Config{
		DBDriver: config.DriverSQLite,
		DSN:      ":memory:",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(gormDB); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err != nil {
			t.Errorf("sql DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return gormDB
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, gormDB *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	u := &models.User{
		FullName: "Test " + string(role),
		Address:  "1 Main St",
		Phone:    "555-0100",
		Email:    email,
		Password: "x",
		Role:     role,
	}
	if err := gormDB.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}
