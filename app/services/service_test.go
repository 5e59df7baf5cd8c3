package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/pkg/database"
)

// setupDB points the global connection at a fresh SQLite database in a
// per-test temp dir. The immediate txlock plus busy timeout make
// concurrent write transactions serialize the way a server database
// would, which the race tests rely on.
func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?_busy_timeout=5000&_txlock=immediate&_fk=1",
		filepath.Join(t.TempDir(), "stockpile_test.db"))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Transaction{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		database.DB = prev
	})
}

func intPtr(n int) *int { return &n }

func testCtx() context.Context { return context.Background() }
