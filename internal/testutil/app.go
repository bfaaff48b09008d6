// Shared test setup utilities. Tests run against an in-memory SQLite
// database with all migrations applied, exactly like production storage.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/okutan/kitaplik-go/internal/assets"
	"github.com/okutan/kitaplik-go/internal/config"
	"github.com/okutan/kitaplik-go/internal/core"
	"github.com/okutan/kitaplik-go/internal/db"
	"github.com/okutan/kitaplik-go/internal/shelf"
	"github.com/okutan/kitaplik-go/internal/storage"
	"github.com/okutan/kitaplik-go/internal/websocket"
)

// SetupTestDB creates an in-memory SQLite database and applies all
// migrations. It returns the database connection, ready for use in tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.InitDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return database
}

// SetupTestApp initializes a core.App over an in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	database := SetupTestDB(t)

	cfg := &config.Config{}
	cfg.Search.BaseURL = "https://www.googleapis.com/books/v1"
	cfg.Search.MaxResults = 20

	hub := websocket.NewHub()
	go hub.Run()

	adapter := shelf.New(storage.NewSQLiteStore(database))
	adapter.OnChange(hub.Notify)

	return &core.App{
		Config:  cfg,
		DB:      database,
		Shelf:   adapter,
		WsHub:   hub,
		Version: "test",
	}
}
