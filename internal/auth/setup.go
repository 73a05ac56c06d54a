package auth

import (
	"fmt"

	"github.com/EmpoweredVote/civic-requests/internal/db"
	"gorm.io/gorm"
)

const Schema = "app_auth"

// Init ensures the auth schema and tables exist.
func Init(conn *gorm.DB) error {
	if err := db.EnsureSchema(conn, Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", Schema, err)
	}
	if err := conn.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("auto-migrate auth tables: %w", err)
	}
	return nil
}
