package durable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestInMemoryStorage(t *testing.T) {
	suite.Run(t, &StorageContractSuite{newStore: func() itemStore { return NewInMemory() }})
}

func TestInMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	value := []byte("abc")
	require.NoError(t, s.SetItem(ctx, "k", value))
	value[0] = 'z'

	got, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}
