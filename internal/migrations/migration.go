package migrations

import (
	"context"
	"log"

	"print_shop_sync/internal/models"
	"print_shop_sync/internal/repository"
	"print_shop_sync/internal/services"

	"gorm.io/gorm"
)

// RunMigrations ensures the schema is current and seeds the default admin
// account on a fresh database.
func RunMigrations(db *gorm.DB, jwtSecret string) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.SyncLog{},
	)
	if err != nil {
		return err
	}

	if err := createDefaultAdmin(db, jwtSecret); err != nil {
		log.Printf("Warning: Failed to create default admin: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultAdmin(db *gorm.DB, jwtSecret string) error {
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo, jwtSecret)

	ctx := context.Background()
	const adminEmail = "admin@printshop.com"

	if existing, err := userRepo.GetByEmail(ctx, adminEmail); err == nil && existing != nil {
		log.Println("Admin user already exists")
		return nil
	}

	admin := &models.User{
		Email: adminEmail,
		Name:  "Admin User",
		Role:  models.RoleAdmin,
	}
	if err := userService.CreateUser(ctx, admin, "admin123"); err != nil {
		return err
	}

	log.Println("Default admin user created")
	log.Println("Email: admin@printshop.com")
	log.Println("Password: admin123")
	log.Println("Please change the password after first login!")
	return nil
}
