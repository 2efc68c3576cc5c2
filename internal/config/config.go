// Package config provides configuration management functionality.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultSelfBrandAliases is the built-in candidate list for self-brand
// resolution. Entries are ordered by precedence and cover the name variants
// (translations, transliterations) the snapshot feed is known to use.
// The list can be extended or replaced via MERIDIAN_BRAND_ALIAS_FILE.
var defaultSelfBrandAliases = []string{
	"英业达",
	"英業達",
	"Your Brand",
	"Inventec",
}

// Config holds application configuration
type Config struct {
	DataDir          string        // Base directory for databases and snapshot files
	DatasetPaths     []string      // Ordered candidate paths for the snapshot dataset file
	CatalogDBPath    string        // SQLite database holding the entity catalog
	BrandAliasFile   string        // Optional JSON file with self-brand alias lists
	SelfBrandAliases []string      // Resolved, ordered self-brand candidate names
	CacheTTL         time.Duration // Dataset cache time-to-live
	RefreshSchedule  string        // Optional cron expression for dataset cache warming
	LogLevel         string
	Port             int
	DevMode          bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("MERIDIAN_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Snapshot file candidates, tried in order. Defaults mirror the layout the
	// collection pipeline drops files into.
	var datasetPaths []string
	if raw := getEnv("MERIDIAN_DATASET_PATHS", ""); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				datasetPaths = append(datasetPaths, trimmed)
			}
		}
	} else {
		datasetPaths = []string{
			filepath.Join(absDataDir, "brand_results.json"),
			filepath.Join(absDataDir, "documents", "brand_results.json"),
		}
	}

	port, err := strconv.Atoi(getEnv("MERIDIAN_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid MERIDIAN_PORT: %w", err)
	}

	ttlMinutes, err := strconv.Atoi(getEnv("MERIDIAN_CACHE_TTL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid MERIDIAN_CACHE_TTL_MINUTES: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		DatasetPaths:    datasetPaths,
		CatalogDBPath:   getEnv("MERIDIAN_CATALOG_DB", filepath.Join(absDataDir, "catalog.db")),
		BrandAliasFile:  getEnv("MERIDIAN_BRAND_ALIAS_FILE", ""),
		CacheTTL:        time.Duration(ttlMinutes) * time.Minute,
		RefreshSchedule: getEnv("MERIDIAN_REFRESH_SCHEDULE", ""),
		LogLevel:        getEnv("MERIDIAN_LOG_LEVEL", "info"),
		Port:            port,
		DevMode:         getEnv("MERIDIAN_DEV_MODE", "") == "true",
	}

	cfg.SelfBrandAliases, err = loadSelfBrandAliases(cfg.BrandAliasFile)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSelfBrandAliases merges the configured alias file with the built-in
// defaults. The file maps an entity id to its ordered list of known display
// name variants; all lists are flattened in file order ahead of the defaults
// so configured names take precedence over the baked-in fallbacks.
func loadSelfBrandAliases(path string) ([]string, error) {
	if path == "" {
		return append([]string(nil), defaultSelfBrandAliases...), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand alias file %s: %w", path, err)
	}

	// File format: {"entity-id": ["variant", ...], ...}. An ordered array of
	// objects is also accepted so precedence between entities can be pinned.
	var byEntity map[string][]string
	if err := json.Unmarshal(raw, &byEntity); err != nil {
		return nil, fmt.Errorf("failed to parse brand alias file %s: %w", path, err)
	}

	seen := make(map[string]bool)
	var aliases []string
	appendAlias := func(name string) {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || seen[trimmed] {
			return
		}
		seen[trimmed] = true
		aliases = append(aliases, trimmed)
	}

	// Sort entity ids so the flattened order is stable across loads.
	ids := make([]string, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, name := range byEntity[id] {
			appendAlias(name)
		}
	}
	for _, name := range defaultSelfBrandAliases {
		appendAlias(name)
	}

	return aliases, nil
}

// getEnv retrieves an environment variable value, returning a fallback if the
// variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
