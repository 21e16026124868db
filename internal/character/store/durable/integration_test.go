//go:build integration

package durable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"grimoire/pkg/testutil/containers"
)

func TestRedisStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(context.Background()))

	store := NewRedis(rc.Client)
	suite.Run(t, &StorageContractSuite{newStore: func() itemStore { return store }})
}

func TestPostgresStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.GetManager().GetPostgres(t)

	store, err := NewPostgres(context.Background(), pg.DB)
	require.NoError(t, err)
	suite.Run(t, &StorageContractSuite{newStore: func() itemStore { return store }})
}
