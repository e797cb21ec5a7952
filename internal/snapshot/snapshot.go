// Package snapshot exports the whole catalog as one JSON document to an
// object store and prunes old exports.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
)

const (
	Prefix     = "snapshots/"
	namePrefix = Prefix + "catalog-"
	stampFmt   = "20060102T150405Z"
)

type Document struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	AuthorCount int                       `json:"author_count"`
	BookCount   int                       `json:"book_count"`
	Authors     []models.AuthorDetailView `json:"authors"`
}

// Bucket is the object store an export is written to.
type Bucket interface {
	PutJSON(ctx context.Context, key string, body []byte) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	DeleteObject(ctx context.Context, key string) error
}

// Key names the export taken at t. Keys sort in time order.
func Key(t time.Time) string {
	return namePrefix + t.UTC().Format(stampFmt) + ".json"
}

// Build reads every author with its books from one consistent view, so a
// book moved between authors during the export is counted exactly once.
func Build(ctx context.Context, store catalog.AuthorStore, now time.Time) (Document, error) {
	list, err := store.AllAuthors(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("read catalog: %w", err)
	}

	doc := Document{GeneratedAt: now.UTC(), Authors: make([]models.AuthorDetailView, 0, len(list))}
	for _, a := range list {
		doc.Authors = append(doc.Authors, a.DetailView())
		doc.BookCount += a.BookCount
	}
	doc.AuthorCount = len(doc.Authors)
	return doc, nil
}

// Export uploads a fresh document and returns its key.
func Export(ctx context.Context, store catalog.AuthorStore, bucket Bucket, now time.Time) (string, error) {
	doc, err := Build(ctx, store, now)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	key := Key(now)
	if err := bucket.PutJSON(ctx, key, body); err != nil {
		return "", err
	}
	log.Printf("[snapshot] exported %s authors=%d books=%d", key, doc.AuthorCount, doc.BookCount)
	return key, nil
}

// Prune deletes all but the newest keep exports and returns how many it
// removed. Objects under Prefix that are not exports are left alone.
func Prune(ctx context.Context, bucket Bucket, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	keys, err := bucket.ListKeys(ctx, Prefix)
	if err != nil {
		return 0, err
	}
	var exports []string
	for _, k := range keys {
		if strings.HasPrefix(k, namePrefix) && strings.HasSuffix(k, ".json") {
			exports = append(exports, k)
		}
	}
	if len(exports) <= keep {
		return 0, nil
	}
	sort.Strings(exports)

	removed := 0
	for _, k := range exports[:len(exports)-keep] {
		if err := bucket.DeleteObject(ctx, k); err != nil {
			return removed, err
		}
		removed++
	}
	log.Printf("[snapshot] pruned %d old exports, kept %d", removed, keep)
	return removed, nil
}

// Run exports and then prunes. Used by both the one-shot command and the
// daily job.
func Run(ctx context.Context, store catalog.AuthorStore, bucket Bucket, keep int, now time.Time) (string, error) {
	key, err := Export(ctx, store, bucket, now)
	if err != nil {
		return "", err
	}
	if _, err := Prune(ctx, bucket, keep); err != nil {
		log.Printf("[snapshot] prune failed: %v", err)
	}
	return key, nil
}
