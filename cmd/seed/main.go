package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courseware/internal/config"
	"courseware/internal/db"
	"courseware/internal/model"
	"courseware/internal/repository"
)

// seedUser describes one development account to provision.
type seedUser struct {
	Email       string
	FirstName   string
	LastName    string
	IsStudent   bool
	IsTeacher   bool
	IsStaff     bool
	IsSuperuser bool
}

var seedUsers = []seedUser{
	{Email: "admin@example.com", FirstName: "Site", LastName: "Admin", IsStaff: true, IsSuperuser: true},
	{Email: "teacher@example.com", FirstName: "Terry", LastName: "Chalk", IsTeacher: true},
	{Email: "student@example.com", FirstName: "Freddy", LastName: "Mercury", IsStudent: true},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.StudentProfile{}, &model.TeacherProfile{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, s := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, s.Email); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up %s: %v", s.Email, err)
		}

		user := &model.User{
			Email:        s.Email,
			PasswordHash: string(hashed),
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			IsStudent:    s.IsStudent,
			IsTeacher:    s.IsTeacher,
			IsActive:     true,
			IsStaff:      s.IsStaff,
			IsSuperuser:  s.IsSuperuser,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create %s: %v", s.Email, err)
		}
		if err := userRepo.SyncProfiles(ctx, user); err != nil {
			log.Fatalf("Failed to sync profiles for %s: %v", s.Email, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}
