package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okutan/kitaplik-go/internal/api"
	"github.com/okutan/kitaplik-go/internal/backup"
	"github.com/okutan/kitaplik-go/internal/core"
	"github.com/okutan/kitaplik-go/internal/importer"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New(version)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	// Start the change-notification hub
	go app.WsHub.Run()

	// Start the drop-folder importer
	imp := importer.New(app.Shelf, app.Config.Import.Path)
	if err := imp.Start(); err != nil {
		log.Printf("Warning: failed to start importer: %v", err)
	} else {
		defer imp.Stop()
	}

	// Start the scheduled backup service
	backupSvc := backup.New(app.Shelf, app.Config.Backup.Path, app.Config.Backup.Keep)
	backupSvc.Start(app.Config.Backup.IntervalHours)
	defer backupSvc.Stop()

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
