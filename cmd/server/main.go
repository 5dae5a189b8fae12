package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"courseware/internal/auth"
	"courseware/internal/cache"
	"courseware/internal/config"
	"courseware/internal/db"
	"courseware/internal/handler"
	"courseware/internal/model"
	"courseware/internal/repository"
	"courseware/internal/router"
	"courseware/internal/service"
)

func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Slide{},
			&model.Lesson{},
			&model.Course{},
			&model.Category{},
			&model.StudentProfile{},
			&model.TeacherProfile{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.TeacherProfile{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.Slide{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	lessonRepo := repository.NewLessonRepository(gormDB)
	slideRepo := repository.NewSlideRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	courseService := service.NewCourseService(courseRepo, cacheClient)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)
	slideService := service.NewSlideService(slideRepo, lessonRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.RefreshTokenTTL)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	courseHandler := handler.NewCourseHandler(courseService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	slideHandler := handler.NewSlideHandler(slideService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		categoryHandler,
		courseHandler,
		lessonHandler,
		slideHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
