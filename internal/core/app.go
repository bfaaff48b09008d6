package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/okutan/kitaplik-go/internal/assets"
	"github.com/okutan/kitaplik-go/internal/config"
	"github.com/okutan/kitaplik-go/internal/db"
	"github.com/okutan/kitaplik-go/internal/shelf"
	"github.com/okutan/kitaplik-go/internal/storage"
	"github.com/okutan/kitaplik-go/internal/websocket"
)

// App holds the core components of the application shared across the
// server, the importer and the backup job.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Shelf   *shelf.Adapter
	WsHub   *websocket.Hub
	Version string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, running migrations,
// and wiring the library adapter to the change-notification hub.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	hub := websocket.NewHub()
	adapter := shelf.New(storage.NewSQLiteStore(database))
	adapter.OnChange(hub.Notify)

	log.Println("Core application setup complete.")
	return &App{
		Config:  cfg,
		DB:      database,
		Shelf:   adapter,
		WsHub:   hub,
		Version: version,
	}, nil
}

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
