package store

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"github.com/smallbiznis/telco360/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(Models()...))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewGormStore(conn, node, zap.NewNop())
}

func TestGormStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	ok, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrDatasetMissing)

	ds := generateDataset(t, 40)
	ds.RunID = "01JTEST"
	require.NoError(t, s.Save(ctx, ds))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01JTEST", loaded.RunID)
	assert.Equal(t, ds.Customers, loaded.Customers)
	require.Len(t, loaded.Usage, len(ds.Usage))
	for _, c := range ds.Customers {
		assert.Equal(t, ds.UsageFor(c.ID), loaded.UsageFor(c.ID), c.ID)
	}
}

func TestGormStoreSaveReplacesPreviousDataset(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	require.NoError(t, s.Save(ctx, generateDataset(t, 30)))
	require.NoError(t, s.Save(ctx, generateDataset(t, 10)))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Customers, 10)
	assert.Len(t, loaded.Usage, 60)
}
