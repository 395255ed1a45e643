package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"caspometer-backend/pkg/config"
	"caspometer-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type secretRow struct {
	ID    uint   `gorm:"primaryKey"`
	Email string `gorm:"uniqueIndex"`
	Hash  string
}

func openTest(t *testing.T, logs *bytes.Buffer) *gorm.DB {
	t.Helper()
	log := logger.NewWithWriter(logger.Config{Level: "debug"}, "test", logs)
	db, err := Open(context.Background(), sqlite.Open(":memory:"), config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpen_PingAndTranslateErrors(t *testing.T) {
	var logs bytes.Buffer
	db := openTest(t, &logs)

	require.NoError(t, Ping(context.Background(), db))
	require.NoError(t, db.AutoMigrate(&secretRow{}))

	require.NoError(t, db.Create(&secretRow{Email: "a@example.com", Hash: "x"}).Error)
	err := db.Create(&secretRow{Email: "a@example.com", Hash: "y"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGormLogger_OmitsBindValues(t *testing.T) {
	var logs bytes.Buffer
	db := openTest(t, &logs)
	require.NoError(t, db.AutoMigrate(&secretRow{}))

	logs.Reset()
	require.NoError(t, db.Create(&secretRow{Email: "b@example.com", Hash: "$2a$10$super-secret-hash"}).Error)

	out := logs.String()
	assert.Contains(t, out, `"component":"gorm"`)
	assert.Contains(t, out, "INSERT INTO")
	assert.NotContains(t, out, "super-secret-hash")
}

func TestOpen_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, sqlite.Open(":memory:"), config.DatabaseConfig{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGormLogger_SlowQuery(t *testing.T) {
	var logs bytes.Buffer
	l := NewGormLogger(logger.NewWithWriter(logger.Config{}, "test", &logs), time.Nanosecond)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	assert.Contains(t, logs.String(), `"message":"slow query"`)
}
