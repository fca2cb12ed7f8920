package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a new database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// UserContext returns a context signed in as the given user
func UserContext(userID string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:    userID,
		Email:     userID + "@example.com",
		SessionID: "session-" + userID,
	})
}
