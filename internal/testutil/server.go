package testutil

import (
	"testing"

	"github.com/okutan/kitaplik-go/internal/api"
	"github.com/okutan/kitaplik-go/internal/core"
)

// SetupTestServer initializes a full core.App and api.Server for
// integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *core.App) {
	t.Helper()
	app := SetupTestApp(t)
	server := api.NewServer(app)
	return server, app
}
