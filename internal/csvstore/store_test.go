package csvstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBootstrappedStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	require.NoError(t, s.Bootstrap())
	return s
}

func TestBootstrap_CreatesHeaderOnlyFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Bootstrap())

	for _, table := range AllTables {
		data, err := os.ReadFile(filepath.Join(dir, table.Name+".csv"))
		require.NoError(t, err)
		assert.Equal(t, strings.Join(table.Columns, ",")+"\n", string(data))

		rows, err := s.Load(table)
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
}

func TestBootstrap_UpgradesOldSchema(t *testing.T) {
	dir := t.TempDir()
	old := "user_id,username,legacy_col\nu1,alice,x\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), []byte(old), 0o644))

	s := New(dir)
	require.NoError(t, s.Bootstrap())

	data, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, strings.Join(Users.Columns, ",")+",legacy_col", header)

	rows, err := s.Load(Users)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0]["user_id"])
	assert.Equal(t, "alice", rows[0]["username"])
	assert.Equal(t, "", rows[0]["user_password"])
	assert.Equal(t, "x", rows[0]["legacy_col"])
}

func TestBootstrap_UpToDateFileUntouched(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Bootstrap())

	require.NoError(t, s.Append(Likes, Row{"post_id": "p1", "user_id": "u1", "created_at": "t"}))
	before, err := os.ReadFile(filepath.Join(dir, "likes.csv"))
	require.NoError(t, err)

	require.NoError(t, s.Bootstrap())
	after, err := os.ReadFile(filepath.Join(dir, "likes.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestLoad_CachesUntilInvalidate(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Bootstrap())

	rows, err := s.Load(Likes)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Write behind the store's back: the cached copy must win until
	// Invalidate drops it.
	f, err := os.OpenFile(filepath.Join(dir, "likes.csv"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("p1,u1,2024-01-01T00:00:00\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err = s.Load(Likes)
	require.NoError(t, err)
	assert.Empty(t, rows, "stale cached copy expected before invalidation")

	s.Invalidate(Likes)
	rows, err = s.Load(Likes)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0]["post_id"])
}

func TestAppend_InvalidatesCache(t *testing.T) {
	s := newBootstrappedStore(t)

	rows, err := s.Load(Likes)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.Append(Likes, Row{"post_id": "p1", "user_id": "u1", "created_at": "t"}))

	rows, err = s.Load(Likes)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0]["user_id"])
}

func TestAppend_PreservesInsertionOrder(t *testing.T) {
	s := newBootstrappedStore(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(Likes, Row{"post_id": id, "user_id": "u", "created_at": "t"}))
	}

	rows, err := s.Load(Likes)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0]["post_id"])
	assert.Equal(t, "b", rows[1]["post_id"])
	assert.Equal(t, "c", rows[2]["post_id"])
}

func TestOverwrite_ReplacesContent(t *testing.T) {
	s := newBootstrappedStore(t)

	require.NoError(t, s.Append(Likes, Row{"post_id": "p1", "user_id": "u1", "created_at": "t"}))
	require.NoError(t, s.Append(Likes, Row{"post_id": "p2", "user_id": "u2", "created_at": "t"}))

	require.NoError(t, s.Overwrite(Likes, []Row{{"post_id": "p2", "user_id": "u2", "created_at": "t"}}))

	rows, err := s.Load(Likes)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p2", rows[0]["post_id"])
}

func TestUpdate_ReadModifyWrite(t *testing.T) {
	s := newBootstrappedStore(t)
	require.NoError(t, s.Append(Reports, Row{"report_id": "r1", "resolved": "False"}))

	err := s.Update(Reports, func(rows []Row) ([]Row, error) {
		next := make([]Row, 0, len(rows))
		for _, row := range rows {
			row = row.Clone()
			row["resolved"] = "True"
			next = append(next, row)
		}
		return next, nil
	})
	require.NoError(t, err)

	rows, err := s.Load(Reports)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "True", rows[0]["resolved"])
}

func TestLoad_NormalizesShortRecords(t *testing.T) {
	dir := t.TempDir()
	content := "post_id,user_id,created_at\np1,u1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "likes.csv"), []byte(content), 0o644))

	s := New(dir)
	rows, err := s.Load(Likes)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["created_at"])
}
