package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/5w1tchy/catalog-api/internal/config"
	"github.com/5w1tchy/catalog-api/internal/storage/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>catalog</Name><Prefix>snapshots/</Prefix><KeyCount>2</KeyCount><MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>snapshots/catalog-20250101T000000Z.json</Key><Size>10</Size></Contents>
  <Contents><Key>snapshots/catalog-20250102T000000Z.json</Key><Size>10</Size></Contents>
</ListBucketResult>`

type recorded struct {
	method, path, contentType, body string
}

func fakeS3(t *testing.T) (*httptest.Server, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(b)})
		mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/xml")
			_, _ = io.WriteString(w, listXML)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func newClient(t *testing.T, endpoint string) *s3.S3Client {
	t.Helper()
	c, err := s3.NewClient(context.Background(), config.S3{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    "catalog",
		AccessKey: "test",
		SecretKey: "test-secret",
		PathStyle: true,
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBucket(t *testing.T) {
	_, err := s3.NewClient(context.Background(), config.S3{Region: "auto"})
	assert.Error(t, err)
}

func TestPutListDelete(t *testing.T) {
	srv, requests := fakeS3(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, c.PutJSON(ctx, "snapshots/x.json", []byte(`{"ok":true}`)))

	keys, err := c.ListKeys(ctx, "snapshots/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"snapshots/catalog-20250101T000000Z.json",
		"snapshots/catalog-20250102T000000Z.json",
	}, keys)

	require.NoError(t, c.DeleteObject(ctx, "snapshots/x.json"))

	got := requests()
	require.Len(t, got, 3)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/catalog/snapshots/x.json", got[0].path)
	assert.Equal(t, "application/json", got[0].contentType)
	assert.Contains(t, got[0].body, `{"ok":true}`)
	assert.Equal(t, http.MethodGet, got[1].method)
	assert.Equal(t, http.MethodDelete, got[2].method)
	assert.Equal(t, "/catalog/snapshots/x.json", got[2].path)
}

func TestPresignedDownloadURL(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:9000")

	u, err := c.GeneratePresignedDownloadURL(context.Background(), "snapshots/x.json", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://127.0.0.1:9000/catalog/snapshots/x.json?"), u)
	assert.Contains(t, u, "X-Amz-Expires=900")
	assert.Contains(t, u, "X-Amz-Signature=")
}
