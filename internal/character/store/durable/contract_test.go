package durable

import (
	"context"

	"github.com/stretchr/testify/suite"

	"grimoire/pkg/platform/sentinel"
)

type itemStore interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageContractSuite runs the same behaviour checks against every backend.
type StorageContractSuite struct {
	suite.Suite
	newStore func() itemStore
	store    itemStore
	ctx      context.Context
}

func (s *StorageContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
	s.Require().NoError(s.store.RemoveItem(s.ctx, "fichaKael"))
}

func (s *StorageContractSuite) TestMissingKey() {
	_, err := s.store.GetItem(s.ctx, "fichaKael")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StorageContractSuite) TestRoundTrip() {
	payload := []byte(`{"story":"Kael"}`)
	s.Require().NoError(s.store.SetItem(s.ctx, "fichaKael", payload))

	got, err := s.store.GetItem(s.ctx, "fichaKael")
	s.Require().NoError(err)
	s.Equal(payload, got)
}

func (s *StorageContractSuite) TestLastWriteWins() {
	s.Require().NoError(s.store.SetItem(s.ctx, "fichaKael", []byte(`{"story":"one"}`)))
	s.Require().NoError(s.store.SetItem(s.ctx, "fichaKael", []byte(`{"story":"two"}`)))

	got, err := s.store.GetItem(s.ctx, "fichaKael")
	s.Require().NoError(err)
	s.Equal(`{"story":"two"}`, string(got))
}

func (s *StorageContractSuite) TestRemove() {
	s.Require().NoError(s.store.SetItem(s.ctx, "fichaKael", []byte(`{}`)))
	s.Require().NoError(s.store.RemoveItem(s.ctx, "fichaKael"))

	_, err := s.store.GetItem(s.ctx, "fichaKael")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
