package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// MigrateDB creates or updates every table the server uses. Indexed string
// columns are capped at 191 characters so utf8mb4 indexes fit on MySQL.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}
	models := []any{
		&domain.User{},
		&domain.Room{},
		&domain.ShapeRecord{},
		&domain.ChatMessage{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", m, err)
		}
	}
	logrus.Info("Database migration completed successfully")
	return nil
}
