//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"grimoire/pkg/testutil/containers"
)

func TestRedisBucketStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	store := NewRedisBucketStore(rc.Client)

	suite.Run(t, &BucketStoreSuite{newStore: func() bucketStore {
		require.NoError(t, rc.FlushAll(context.Background()))
		return store
	}})
}
