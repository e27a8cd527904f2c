package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/lifestyleblend/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	gotten  []string
	deleted []string
}

func (f *fakeBackend) EnsureBucket(context.Context) error { return nil }

func (f *fakeBackend) Put(context.Context, string, io.Reader, int64, string) error { return nil }

func (f *fakeBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.gotten = append(f.gotten, key)
	return io.NopCloser(strings.NewReader("object body")), nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBackend) PublicURL(key string) string { return "https://example.com/" + key }

func (f *fakeBackend) Bucket() string { return "covers" }

func TestStorageDelegatesToBackend(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStorage(backend)

	object, err := store.Get(context.Background(), "1700000000000.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(object)
	require.NoError(t, err)
	require.NoError(t, object.Close())
	assert.Equal(t, "object body", string(body))

	require.NoError(t, store.Delete(context.Background(), "1700000000000.jpg"))

	assert.Equal(t, []string{"1700000000000.jpg"}, backend.gotten)
	assert.Equal(t, []string{"1700000000000.jpg"}, backend.deleted)
	assert.Equal(t, "covers", store.Bucket())
}

func TestNewSelectsBackend(t *testing.T) {
	t.Run("defaults to s3", func(t *testing.T) {
		cfg := config.Config{}
		cfg.Storage.Bucket = "covers"

		store, err := New(aws.Config{}, cfg)
		require.NoError(t, err)
		assert.Equal(t, "covers", store.Bucket())
	})

	t.Run("s3 requires a bucket", func(t *testing.T) {
		_, err := New(aws.Config{}, config.Config{})
		assert.Error(t, err)
	})

	t.Run("minio requires an endpoint", func(t *testing.T) {
		cfg := config.Config{}
		cfg.Storage.Backend = "minio"
		cfg.Storage.Bucket = "covers"

		_, err := New(aws.Config{}, cfg)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.Config{}
		cfg.Storage.Backend = "ftp"

		_, err := New(aws.Config{}, cfg)
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}
