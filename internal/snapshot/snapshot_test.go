package snapshot_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/snapshot"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBucket struct {
	objects map[string][]byte
	failPut bool
}

func newBucket(keys ...string) *memBucket {
	b := &memBucket{objects: map[string][]byte{}}
	for _, k := range keys {
		b.objects[k] = []byte("{}")
	}
	return b
}

func (b *memBucket) PutJSON(_ context.Context, key string, body []byte) error {
	if b.failPut {
		return errors.New("bucket unavailable")
	}
	b.objects[key] = body
	return nil
}

func (b *memBucket) ListKeys(context.Context, string) ([]string, error) {
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (b *memBucket) DeleteObject(_ context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

func (b *memBucket) keys() []string {
	keys, _ := b.ListKeys(context.Background(), "")
	sort.Strings(keys)
	return keys
}

func seeded(t *testing.T) *catalog.MemStore {
	t.Helper()
	ctx := context.Background()
	s := catalog.NewMemory()
	_, err := s.CreateAuthor(ctx, "John Smith")
	require.NoError(t, err)
	_, err = s.CreateAuthor(ctx, "Jane Doe")
	require.NoError(t, err)
	for _, in := range []catalog.BookInput{
		{Title: "Python Programming", PublicationYear: 2021, AuthorID: 1},
		{Title: "Advanced Python", PublicationYear: 2022, AuthorID: 1},
		{Title: "Web APIs", PublicationYear: 2021, AuthorID: 2},
	} {
		_, err := s.CreateBook(ctx, in)
		require.NoError(t, err)
	}
	return s
}

var at = time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC)

func TestKey(t *testing.T) {
	assert.Equal(t, "snapshots/catalog-20250304T050607Z.json", snapshot.Key(at))
	local := at.In(time.FixedZone("GET", 4*3600))
	assert.Equal(t, snapshot.Key(at), snapshot.Key(local))
}

func TestBuild(t *testing.T) {
	doc, err := snapshot.Build(context.Background(), seeded(t), at)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.AuthorCount)
	assert.Equal(t, 3, doc.BookCount)
	require.Len(t, doc.Authors, 2)
	assert.Equal(t, "Jane Doe", doc.Authors[0].Name)
	assert.Equal(t, "Author John Smith has written 2 books", doc.Authors[1].Description)
	assert.Equal(t, "Advanced Python", doc.Authors[1].Books[0].Title)
}

type brokenStore struct{ *catalog.MemStore }

func (brokenStore) AllAuthors(context.Context) ([]models.Author, error) {
	return nil, errors.New("connection reset")
}

func TestBuild_StoreError(t *testing.T) {
	_, err := snapshot.Build(context.Background(), brokenStore{seeded(t)}, at)
	assert.ErrorContains(t, err, "connection reset")

	bucket := newBucket()
	_, err = snapshot.Export(context.Background(), brokenStore{seeded(t)}, bucket, at)
	assert.Error(t, err)
	assert.Empty(t, bucket.keys())
}

func TestExport(t *testing.T) {
	bucket := newBucket()
	key, err := snapshot.Export(context.Background(), seeded(t), bucket, at)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Key(at), key)

	var doc snapshot.Document
	require.NoError(t, json.Unmarshal(bucket.objects[key], &doc))
	assert.Equal(t, at, doc.GeneratedAt)
	assert.Equal(t, 3, doc.BookCount)

	bucket.failPut = true
	_, err = snapshot.Export(context.Background(), seeded(t), bucket, at.Add(time.Hour))
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	bucket := newBucket(
		"snapshots/catalog-20250101T000000Z.json",
		"snapshots/catalog-20250103T000000Z.json",
		"snapshots/catalog-20250102T000000Z.json",
		"snapshots/README.txt",
	)

	removed, err := snapshot.Prune(context.Background(), bucket, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{
		"snapshots/README.txt",
		"snapshots/catalog-20250102T000000Z.json",
		"snapshots/catalog-20250103T000000Z.json",
	}, bucket.keys())

	removed, err = snapshot.Prune(context.Background(), bucket, 5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRunKeepsNewest(t *testing.T) {
	bucket := newBucket("snapshots/catalog-20240101T000000Z.json")
	key, err := snapshot.Run(context.Background(), seeded(t), bucket, 1, at)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, bucket.keys())
}
