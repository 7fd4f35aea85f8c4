package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kiosk-auth/internal/models"
	"kiosk-auth/internal/util"
)

var ErrUserNotFound = errors.New("admin user not found")

// AdminRepository stores operator accounts in the kiosk's local SQLite
// database.
type AdminRepository struct {
	db *gorm.DB
}

// Open connects to the SQLite file at dsn and migrates the schema.
func Open(dsn string) (*AdminRepository, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&models.AdminUser{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	util.Info("credential store opened", util.String("dsn", dsn))
	return &AdminRepository{db: db}, nil
}

// NewAdminRepository wraps an already-open gorm handle (used by tests).
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}
	return &user, nil
}

func (r *AdminRepository) Create(ctx context.Context, user *models.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// UpdatePIN stores a freshly salted PIN pair for username.
func (r *AdminRepository) UpdatePIN(ctx context.Context, username, pinHash, pinSalt string) error {
	res := r.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"pin_hash": pinHash,
			"pin_salt": pinSalt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update PIN: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, username string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("username = ?", username).
		Update("last_login_at", &now)
	if res.Error != nil {
		return fmt.Errorf("failed to update last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
