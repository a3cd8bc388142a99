package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDb(t *testing.T) *DbContext {

	dbCtx, err := NewDbContext(":memory:")
	require.NoError(t, err)

	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() {
		_ = dbCtx.Close()
	})
	return dbCtx
}
