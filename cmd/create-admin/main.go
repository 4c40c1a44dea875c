// Command create-admin creates an administrator account, or promotes an
// existing account and resets its password.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/config"
	"github.com/petermazzocco/renovation-portal/internal/db"
	"github.com/petermazzocco/renovation-portal/internal/repository"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password, defaults to $ADMIN_PASSWORD")
	name := flag.String("name", "Administrator", "full name")
	phone := flag.String("phone", "", "contact phone")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger("create-admin", cfg.LogLevel)

	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		utils.Logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(gormDB); err != nil {
		utils.Logger.Fatalf("Failed to auto migrate models: %v", err)
	}

	accounts := auth.NewAccounts(repository.NewGormUserRepository(gormDB))
	admin, err := accounts.CreateAdmin(context.Background(), auth.RegisterInput{
		FullName: *name,
		Phone:    *phone,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		utils.Logger.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin ready: id=%d email=%s role=%s\n", admin.ID, admin.Email, admin.Role)
}
