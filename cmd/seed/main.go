// Seeds the tool collection from a JSON catalog file. Existing tools are
// kept; seeded entries are skipped when their id is already present.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/toolshub/api/internal/config"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/store"
)

func main() {
	filePath := flag.String("file", "data/default_tools.json", "Path to catalog JSON file")
	publish := flag.Bool("publish", false, "Seed entries as published instead of pending")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	redisStore, err := store.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	seeds, err := loadCatalog(*filePath)
	if err != nil {
		log.Fatalf("Failed to load catalog file: %v", err)
	}
	log.Printf("Loaded %d tools from %s", len(seeds), *filePath)

	ctx := context.Background()
	tools, err := redisStore.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load existing collection: %v", err)
	}

	existing := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		existing[t.ID] = struct{}{}
	}

	now := time.Now()
	inserted := 0
	skipped := 0

	for _, seed := range seeds {
		if seed.ID == "" {
			seed.ID = uuid.NewString()
		}
		if _, ok := existing[seed.ID]; ok {
			skipped++
			continue
		}

		seed.Status = model.StatusPending
		if *publish {
			seed.Status = model.StatusPublished
			seed.ApprovedBy = model.SystemSubmitter
			seed.ApprovedAt = &now
		}
		if seed.CreatedBy == "" {
			seed.CreatedBy = model.SystemSubmitter
		}
		seed.CreatedAt = now
		seed.UpdatedAt = now

		tools = append(tools, seed)
		inserted++
	}

	if err := redisStore.Save(ctx, tools); err != nil {
		log.Fatalf("Failed to save collection: %v", err)
	}

	log.Printf("Seeding complete: %d inserted, %d skipped", inserted, skipped)
}

func loadCatalog(path string) ([]model.Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seeds []model.Tool
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}
