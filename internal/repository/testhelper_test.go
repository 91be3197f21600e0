package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"social-feed/internal/csvstore"
)

func newTestStore(t *testing.T) *csvstore.Store {
	t.Helper()
	store := csvstore.New(t.TempDir())
	require.NoError(t, store.Bootstrap())
	return store
}
