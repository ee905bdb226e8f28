package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/config"
)

func setupTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:",
		Driver: "sqlite",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec(
		`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`).Error)
	return client
}

func countItems(t *testing.T, client *Client) int64 {
	t.Helper()

	var count int64
	require.NoError(t, client.DB().Table("items").Count(&count).Error)
	return count
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "sqlite"}, nil)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	client := setupTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestWithTxCommits(t *testing.T) {
	client := setupTestClient(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO items (name) VALUES ('carrots')`).Error
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, countItems(t, client))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := setupTestClient(t)

	boom := fmt.Errorf("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO items (name) VALUES ('carrots')`).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.EqualValues(t, 0, countItems(t, client), "failed transaction leaves no rows behind")
}

func TestIsUniqueViolation(t *testing.T) {
	client := setupTestClient(t)

	require.NoError(t, client.DB().Exec(`INSERT INTO items (name) VALUES ('carrots')`).Error)
	err := client.DB().Exec(`INSERT INTO items (name) VALUES ('carrots')`).Error
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	require.False(t, IsUniqueViolation(fmt.Errorf("some other failure")))
	require.False(t, IsUniqueViolation(nil))
}
