package requests

import (
	"fmt"

	"github.com/EmpoweredVote/civic-requests/internal/db"
	"gorm.io/gorm"
)

const Schema = "app_requests"

// Init ensures the requests schema and table exist. auth.Init must run first
// so the users table is there for the foreign key.
func Init(conn *gorm.DB) error {
	if err := db.EnsureSchema(conn, Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", Schema, err)
	}
	if err := conn.AutoMigrate(&Request{}); err != nil {
		return fmt.Errorf("auto-migrate requests tables: %w", err)
	}
	return nil
}
