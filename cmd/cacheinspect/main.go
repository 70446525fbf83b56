// Command cacheinspect dumps the offline cache database for debugging.
// It opens the store read-only, so it is safe to run against a live
// data directory.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dharmaapp/dharma-core/internal/domain"
)

type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

func main() {
	dbPath := os.Getenv("DATA_DIR")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/dharma/data/db")
	} else {
		dbPath = dbPath + "/db"
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Cache Inspection ===")
	fmt.Println()

	envelopes := 0
	rawEntries := 0
	pathEntries := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			switch {
			case key == "offline_audio_tracks":
				printTracks(val)
				rawEntries++
			case key == "offline_audio_categories":
				printCategories(val)
				rawEntries++
			case strings.HasPrefix(key, "offline_path_"):
				var path string
				if err := json.Unmarshal(val, &path); err == nil {
					fmt.Printf("Fast index: %s -> %s\n", strings.TrimPrefix(key, "offline_path_"), path)
				}
				pathEntries++
			case key == "all_books":
				var books []domain.Book
				if err := json.Unmarshal(val, &books); err == nil {
					downloaded := 0
					for _, b := range books {
						if b.IsDownloaded {
							downloaded++
						}
					}
					fmt.Printf("Books: %d cached, %d downloaded\n", len(books), downloaded)
				}
				rawEntries++
			default:
				var env envelope
				if err := json.Unmarshal(val, &env); err == nil && env.Timestamp > 0 {
					age := time.Since(time.UnixMilli(env.Timestamp)).Round(time.Second)
					fmt.Printf("Envelope: %-40s  %6d bytes  written %s ago\n", key, len(env.Data), age)
					envelopes++
				} else {
					fmt.Printf("Raw:      %-40s  %6d bytes\n", key, len(val))
					rawEntries++
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan database: %v", err)
	}

	fmt.Println()
	fmt.Printf("Totals: %d envelopes, %d raw entries, %d fast-index entries\n",
		envelopes, rawEntries, pathEntries)
}

func printTracks(val []byte) {
	var tracks []domain.OfflineTrack
	if err := json.Unmarshal(val, &tracks); err != nil {
		fmt.Printf("Offline tracks: unreadable (%v)\n", err)
		return
	}

	fmt.Printf("Offline tracks: %d\n", len(tracks))
	for _, track := range tracks {
		played := "never"
		if track.LastPlayedAt > 0 {
			played = time.UnixMilli(track.LastPlayedAt).Format(time.RFC3339)
		}
		fmt.Printf("  [%s] %q category=%s path=%s last_played=%s\n",
			track.ID, track.Title, track.CategoryID, track.Path, played)
	}
}

func printCategories(val []byte) {
	var categories []string
	if err := json.Unmarshal(val, &categories); err != nil {
		fmt.Printf("Offline categories: unreadable (%v)\n", err)
		return
	}
	fmt.Printf("Offline categories: %s\n", strings.Join(categories, ", "))
}
