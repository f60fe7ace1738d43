package clientdata

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE polygon_close (key TEXT PRIMARY KEY, data TEXT NOT NULL, expires_at INTEGER NOT NULL);
CREATE INDEX idx_polygon_close_expires ON polygon_close(expires_at);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each new :memory: connection is a separate empty database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

// setupRepo returns a repository whose clock is controlled by the returned setter.
func setupRepo(t *testing.T) (*Repository, *sql.DB, func(time.Time)) {
	db := setupTestDB(t)
	t.Cleanup(func() { _ = db.Close() })

	current := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	repo := NewRepository(db)
	repo.now = func() time.Time { return current }

	return repo, db, func(t time.Time) { current = t }
}

type closeQuote struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
}

func TestStoreAndGetIfFresh(t *testing.T) {
	repo, db, _ := setupRepo(t)

	err := repo.Store(TablePolygonClose, "XYZ:2024-03-03", closeQuote{Symbol: "XYZ", Close: 20}, time.Hour)
	require.NoError(t, err)

	var expiresAt int64
	err = db.QueryRow("SELECT expires_at FROM polygon_close WHERE key = ?", "XYZ:2024-03-03").Scan(&expiresAt)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC).Unix(), expiresAt)

	raw, err := repo.GetIfFresh(TablePolygonClose, "XYZ:2024-03-03")
	require.NoError(t, err)
	require.NotNil(t, raw)

	var got closeQuote
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, closeQuote{Symbol: "XYZ", Close: 20}, got)
}

func TestStoreReplacesExisting(t *testing.T) {
	repo, _, _ := setupRepo(t)

	require.NoError(t, repo.Store(TablePolygonClose, "k", closeQuote{Close: 1}, time.Hour))
	require.NoError(t, repo.Store(TablePolygonClose, "k", closeQuote{Close: 2}, time.Hour))

	raw, err := repo.Get(TablePolygonClose, "k")
	require.NoError(t, err)

	var got closeQuote
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 2.0, got.Close)
}

func TestGetIfFresh_ExpiredReturnsNilButGetReturnsStale(t *testing.T) {
	repo, _, setNow := setupRepo(t)

	require.NoError(t, repo.Store(TablePolygonClose, "k", closeQuote{Close: 5}, time.Minute))
	setNow(time.Date(2024, 3, 4, 12, 5, 0, 0, time.UTC))

	fresh, err := repo.GetIfFresh(TablePolygonClose, "k")
	require.NoError(t, err)
	assert.Nil(t, fresh)

	stale, err := repo.Get(TablePolygonClose, "k")
	require.NoError(t, err)
	assert.NotNil(t, stale)
}

func TestGet_MissingKey(t *testing.T) {
	repo, _, _ := setupRepo(t)

	raw, err := repo.Get(TablePolygonClose, "nope")
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = repo.GetIfFresh(TablePolygonClose, "nope")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestInvalidTableRejected(t *testing.T) {
	repo, _, _ := setupRepo(t)

	assert.Error(t, repo.Store("customers; DROP TABLE x", "k", 1, time.Hour))
	_, err := repo.Get("unknown", "k")
	assert.Error(t, err)
	_, err = repo.GetIfFresh("unknown", "k")
	assert.Error(t, err)
	assert.Error(t, repo.Delete("unknown", "k"))
	_, err = repo.DeleteExpired("unknown")
	assert.Error(t, err)
}

func TestStore_UnmarshalableData(t *testing.T) {
	repo, _, _ := setupRepo(t)

	err := repo.Store(TablePolygonClose, "k", make(chan int), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestDelete(t *testing.T) {
	repo, _, _ := setupRepo(t)

	require.NoError(t, repo.Store(TablePolygonClose, "k", 1, time.Hour))
	require.NoError(t, repo.Delete(TablePolygonClose, "k"))

	raw, err := repo.Get(TablePolygonClose, "k")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDeleteExpired(t *testing.T) {
	repo, db, setNow := setupRepo(t)

	require.NoError(t, repo.Store(TablePolygonClose, "short", 1, time.Minute))
	require.NoError(t, repo.Store(TablePolygonClose, "long", 2, 48*time.Hour))
	setNow(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))

	deleted, err := repo.DeleteExpired(TablePolygonClose)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.DeleteExpired("accounts")
	assert.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM polygon_close").Scan(&count))
	assert.Equal(t, 1, count)
}
