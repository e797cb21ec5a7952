// Command snapshot exports the catalog to the configured S3 bucket once,
// prunes old exports and prints a short-lived download link.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/5w1tchy/catalog-api/internal/config"
	"github.com/5w1tchy/catalog-api/internal/snapshot"
	"github.com/5w1tchy/catalog-api/internal/storage/s3"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
)

func main() {
	cfg := config.Load(".env", "../../.env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, db, err := catalog.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	bucket, err := s3.NewClient(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	key, err := snapshot.Run(ctx, store, bucket, cfg.Snapshot.Keep, time.Now())
	if err != nil {
		log.Fatalf("snapshot: %v", err)
	}

	url, err := bucket.GeneratePresignedDownloadURL(ctx, key, 15*time.Minute)
	if err != nil {
		log.Printf("presign: %v", err)
		fmt.Println(key)
		return
	}
	fmt.Println(key)
	fmt.Println(url)
}
