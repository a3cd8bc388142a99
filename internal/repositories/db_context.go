package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/homesignal/backend/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.Agency{})
	if err != nil {
		return fmt.Errorf("failed to migrate Agency entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.User{})
	if err != nil {
		return fmt.Errorf("failed to migrate User entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Property{})
	if err != nil {
		return fmt.Errorf("failed to migrate Property entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.SavedSearch{})
	if err != nil {
		return fmt.Errorf("failed to migrate SavedSearch entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Notification{})
	if err != nil {
		return fmt.Errorf("failed to migrate Notification entity: %w", err)
	}

	// The delivery scheduler scans pending rows oldest-first; the minter
	// looks up recent rows per user and saved search.
	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_unsent ON notifications (created_at) WHERE sent_at IS NULL; " +
		"CREATE INDEX IF NOT EXISTS idx_notifications_dedup ON notifications (user_id, reference, created_at);").
		Error; err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
