package repository_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/NewsFeed/internal/infra/httpcache"
	"github.com/NewsFeed/internal/infra/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoResponseStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	defer func() {
		if err := mongodbContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	require.NoError(t, err)
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("failed to disconnect client: %s", err)
		}
	}()

	store, err := repository.NewMongoResponseStore(client, "test_news_feed", "upstream_cache")
	require.NoError(t, err)

	t.Run("Set and Get", func(t *testing.T) {
		entry := httpcache.Entry{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       []byte(`{"status":"ok","articles":[]}`),
			StoredAt:   time.Now().Truncate(time.Millisecond).UTC(),
		}

		require.NoError(t, store.Set(ctx, "k1", entry, time.Minute))

		got, found, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, entry.StatusCode, got.StatusCode)
		assert.Equal(t, entry.Body, got.Body)
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.WithinDuration(t, entry.StoredAt, got.StoredAt, time.Millisecond)
	})

	t.Run("Missing key", func(t *testing.T) {
		_, found, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Expired entry is a miss", func(t *testing.T) {
		entry := httpcache.Entry{StatusCode: http.StatusOK, Body: []byte(`{}`), StoredAt: time.Now()}
		require.NoError(t, store.Set(ctx, "k2", entry, -time.Second))

		_, found, err := store.Get(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k3", httpcache.Entry{StatusCode: 200, Body: []byte("one")}, time.Minute))
		require.NoError(t, store.Set(ctx, "k3", httpcache.Entry{StatusCode: 200, Body: []byte("two")}, time.Minute))

		got, found, err := store.Get(ctx, "k3")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte("two"), got.Body)
	})
}
