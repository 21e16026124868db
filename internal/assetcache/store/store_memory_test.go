package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestInMemoryBucketStore(t *testing.T) {
	suite.Run(t, &BucketStoreSuite{newStore: func() bucketStore { return NewInMemoryBucketStore() }})
}

func TestInMemoryBucketStoreCopiesEntries(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryBucketStore()
	e := entry("http://app.test/", "doc")
	require.NoError(t, s.Put(ctx, "v1", e))

	e.Body[0] = 'X'
	e.Header.Set("Content-Type", "changed")

	got, err := s.Match(ctx, "v1", "http://app.test/")
	require.NoError(t, err)
	require.Equal(t, "doc", string(got.Body))
	require.Equal(t, "text/plain", got.Header.Get("Content-Type"))

	got.Body[0] = 'Y'
	again, err := s.Match(ctx, "v1", "http://app.test/")
	require.NoError(t, err)
	require.Equal(t, "doc", string(again.Body))
}
