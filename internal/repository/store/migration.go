package store

import (
	"embed"
	"fmt"
)

//go:embed migration/schema.sql
var migrations embed.FS

// RunMigrations executes schema.sql. Every statement is idempotent so it
// runs on each start.
func (s *Store) RunMigrations() error {
	content, err := migrations.ReadFile("migration/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	if _, err := s.DB.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %w", err)
	}

	return nil
}
