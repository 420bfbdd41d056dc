package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pariskandee/real-estate/internal/listing/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewListingCache(client, ttl), mr
}

func TestListingCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	listing := &domain.Listing{
		ID:         "abc123",
		Reference:  "PROP-000042",
		Title:      "House with garden",
		IsApproved: true,
		PostedBy:   "user-1",
	}
	require.NoError(t, c.SetListing(context.Background(), listing))

	got, err := c.GetListing(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "PROP-000042", got.Reference)
	assert.True(t, got.IsApproved)
}

func TestListingCache_MissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	got, err := c.GetListing(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingCache_DeleteInvalidates(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	listing := &domain.Listing{ID: "abc123", Reference: "PROP-000042"}
	require.NoError(t, c.SetListing(context.Background(), listing))
	require.NoError(t, c.DeleteListing(context.Background(), "abc123"))

	got, err := c.GetListing(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Second)

	listing := &domain.Listing{ID: "abc123"}
	require.NoError(t, c.SetListing(context.Background(), listing))

	mr.FastForward(2 * time.Second)

	got, err := c.GetListing(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingCache_DefaultTTL(t *testing.T) {
	c, mr := newTestCache(t, 0)

	require.NoError(t, c.SetListing(context.Background(), &domain.Listing{ID: "abc123"}))
	assert.Equal(t, time.Hour, mr.TTL("listing:abc123"))
}
