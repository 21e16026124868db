package store

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/suite"

	"grimoire/internal/assetcache/models"
	"grimoire/pkg/platform/sentinel"
)

type bucketStore interface {
	Open(ctx context.Context, bucket string) error
	Put(ctx context.Context, bucket string, entry models.Entry) error
	PutAll(ctx context.Context, bucket string, entries []models.Entry) error
	Match(ctx context.Context, bucket, url string) (models.Entry, error)
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, bucket string) error
}

// BucketStoreSuite runs the same checks against every backend.
type BucketStoreSuite struct {
	suite.Suite
	newStore func() bucketStore
	store    bucketStore
	ctx      context.Context
}

func (s *BucketStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func entry(url, body string) models.Entry {
	return models.Entry{
		URL:      url,
		Status:   http.StatusOK,
		Header:   http.Header{"Content-Type": {"text/plain"}},
		Body:     []byte(body),
		StoredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *BucketStoreSuite) TestOpenListsEmptyBucket() {
	s.Require().NoError(s.store.Open(s.ctx, "v1"))
	keys, err := s.store.Keys(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"v1"}, keys)
}

func (s *BucketStoreSuite) TestPutAndMatch() {
	e := entry("http://app.test/script.js", "console.log(1)")
	s.Require().NoError(s.store.Put(s.ctx, "v1", e))

	got, err := s.store.Match(s.ctx, "v1", e.URL)
	s.Require().NoError(err)
	s.Equal(e.Status, got.Status)
	s.Equal(e.Body, got.Body)
	s.Equal("text/plain", got.Header.Get("Content-Type"))
	s.True(e.StoredAt.Equal(got.StoredAt))
}

func (s *BucketStoreSuite) TestMatchIsScopedToBucket() {
	e := entry("http://app.test/style.css", "body{}")
	s.Require().NoError(s.store.Put(s.ctx, "v1", e))

	_, err := s.store.Match(s.ctx, "v2", e.URL)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Match(s.ctx, "v1", "http://app.test/missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *BucketStoreSuite) TestLastWriteWins() {
	s.Require().NoError(s.store.Put(s.ctx, "v1", entry("http://app.test/", "old")))
	s.Require().NoError(s.store.Put(s.ctx, "v1", entry("http://app.test/", "new")))

	got, err := s.store.Match(s.ctx, "v1", "http://app.test/")
	s.Require().NoError(err)
	s.Equal("new", string(got.Body))
}

func (s *BucketStoreSuite) TestPutAll() {
	entries := []models.Entry{
		entry("http://app.test/", "doc"),
		entry("http://app.test/index.html", "doc"),
		entry("http://app.test/script.js", "js"),
	}
	s.Require().NoError(s.store.PutAll(s.ctx, "v1", entries))
	for _, e := range entries {
		_, err := s.store.Match(s.ctx, "v1", e.URL)
		s.NoError(err, e.URL)
	}
}

func (s *BucketStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Put(s.ctx, "old", entry("http://app.test/", "doc")))
	s.Require().NoError(s.store.Open(s.ctx, "new"))
	s.Require().NoError(s.store.Delete(s.ctx, "old"))

	keys, err := s.store.Keys(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"new"}, keys)
	_, err = s.store.Match(s.ctx, "old", "http://app.test/")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
