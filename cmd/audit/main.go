// Dumps the audit log for offline inspection.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/toolshub/api/internal/config"
	"github.com/toolshub/api/internal/store"
)

func main() {
	action := flag.String("action", "", "Only show entries for this action (approve, reject, ...)")
	limit := flag.Int("limit", 0, "Maximum entries to show (0 = all)")
	asJSON := flag.Bool("json", false, "Output raw JSON instead of a table")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	redisStore, err := store.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	entries, err := redisStore.LoadAudit(context.Background())
	if err != nil {
		log.Fatalf("Failed to load audit log: %v", err)
	}

	if *action != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Action == *action {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			log.Fatalf("Failed to encode entries: %v", err)
		}
		return
	}

	fmt.Printf("%-20s  %-10s  %-36s  %-30s  %s\n", "TIME", "ACTION", "TOOL", "BY", "TITLE")
	for _, e := range entries {
		fmt.Printf("%-20s  %-10s  %-36s  %-30s  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Action,
			e.ToolID,
			e.PerformedBy,
			e.ToolTitle,
		)
	}
	fmt.Printf("\n%d entries\n", len(entries))
}
