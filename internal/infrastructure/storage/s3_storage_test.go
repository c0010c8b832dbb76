package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/finerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// fakeS3 answers every request with 200 and records what it received
type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	f.mu.Unlock()
	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func newTestS3(t *testing.T) (*S3ObjectStorage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	s, err := NewS3ObjectStorage(context.Background(), &config.StorageConfig{
		Endpoint:        server.URL,
		Region:          "us-east-1",
		Bucket:          "attachments",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s, fake
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{})
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("half a credential pair", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{Bucket: "b", AccessKeyID: "key"})
		assert.ErrorContains(t, err, "must be set together")
	})

	t.Run("relative endpoint", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{Bucket: "b", Endpoint: "localhost:9000"})
		assert.ErrorContains(t, err, "invalid storage endpoint")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, &config.StorageConfig{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"})
		require.NoError(t, err)
		assert.Equal(t, "b", s.Bucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiry)
	})
}

func TestS3ObjectStorage_Upload(t *testing.T) {
	s, fake := newTestS3(t)

	require.NoError(t, s.Upload(context.Background(), "tenant/parties/p/1-note.txt", []byte("hello"), "text/plain"))

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/attachments/tenant/parties/p/1-note.txt", req.Path)
	assert.Equal(t, "text/plain", req.ContentType)
	assert.Contains(t, req.Body, "hello")

	assert.ErrorContains(t, s.Upload(context.Background(), "", nil, ""), "storage key is required")
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	s, fake := newTestS3(t)

	raw, expiresAt, err := s.GenerateDownloadURL(context.Background(), "tenant/parties/p/1-note.txt", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, time.Minute)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/attachments/tenant/parties/p/1-note.txt", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Empty(t, fake.requests, "presigning does not call the backend")
}

func TestS3ObjectStorage_DeleteObject(t *testing.T) {
	s, fake := newTestS3(t)

	require.NoError(t, s.DeleteObject(context.Background(), "tenant/parties/p/1-note.txt"))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodDelete, fake.requests[0].Method)
	assert.Equal(t, "/attachments/tenant/parties/p/1-note.txt", fake.requests[0].Path)
}

func TestS3ObjectStorage_EnsureBucketExisting(t *testing.T) {
	s, fake := newTestS3(t)

	require.NoError(t, s.EnsureBucket(context.Background()))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodHead, fake.requests[0].Method)
}
