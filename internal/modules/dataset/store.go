package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnavailable is returned when no snapshot file could be located or
// decoded at any configured path.
var ErrUnavailable = errors.New("dataset unavailable")

// Store loads and decodes snapshot files from a fixed, ordered list of
// candidate paths. The first path that exists and decodes wins.
type Store struct {
	paths []string
	log   zerolog.Logger
}

// NewStore creates a store over the given candidate paths.
func NewStore(paths []string, log zerolog.Logger) *Store {
	return &Store{
		paths: paths,
		log:   log.With().Str("component", "dataset-store").Logger(),
	}
}

// Load reads the first available snapshot file and returns the validated
// dataset. A decoded msgpack sidecar is written next to the source file so
// subsequent cold loads skip the JSON pass; a stale or unreadable sidecar is
// ignored and rebuilt.
func (s *Store) Load() (*Dataset, error) {
	var lastErr error
	for _, path := range s.paths {
		info, err := os.Stat(path)
		if err != nil {
			lastErr = err
			continue
		}
		if info.IsDir() {
			lastErr = fmt.Errorf("%s is a directory", path)
			continue
		}

		if ds := s.loadSidecar(path, info.ModTime().Unix()); ds != nil {
			return ds, nil
		}

		ds, err := s.loadJSON(path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to decode snapshot file")
			lastErr = err
			continue
		}
		s.writeSidecar(path, info.ModTime().Unix(), ds)
		s.log.Info().Str("path", path).Int("entities", ds.Len()).Msg("snapshot loaded")
		return ds, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return nil, ErrUnavailable
}

func (s *Store) loadJSON(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var series map[string]EntitySeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	ds := &Dataset{Series: series}
	s.normalize(ds)
	return ds, nil
}

// normalize enforces the per-entity date ordering contract: dates must be
// strictly increasing, so out-of-order and duplicate records are dropped with
// a warning rather than failing the whole load.
func (s *Store) normalize(ds *Dataset) {
	for key, series := range ds.Series {
		cleaned := series[:0]
		lastDate := ""
		dropped := 0
		for _, rec := range series {
			if rec.Date == "" || (lastDate != "" && rec.Date <= lastDate) {
				dropped++
				continue
			}
			cleaned = append(cleaned, rec)
			lastDate = rec.Date
		}
		if dropped > 0 {
			s.log.Warn().
				Str("entity", key).
				Int("dropped", dropped).
				Msg("dropped out-of-order day records")
		}
		ds.Series[key] = cleaned
	}

	ds.keys = make([]string, 0, len(ds.Series))
	for key := range ds.Series {
		ds.keys = append(ds.keys, key)
	}
	sort.Strings(ds.keys)
}

// sidecar is the decoded-snapshot cache format written next to the source
// file. The source mtime guards against serving a stale decode.
type sidecar struct {
	SourceMtime int64                   `msgpack:"source_mtime"`
	Series      map[string]EntitySeries `msgpack:"series"`
}

func sidecarPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".cache")
}

func (s *Store) loadSidecar(path string, mtime int64) *Dataset {
	raw, err := os.ReadFile(sidecarPath(path))
	if err != nil {
		return nil
	}
	var sc sidecar
	if err := msgpack.Unmarshal(raw, &sc); err != nil || sc.SourceMtime != mtime {
		return nil
	}
	ds := &Dataset{Series: sc.Series}
	s.normalize(ds)
	s.log.Debug().Str("path", path).Msg("snapshot served from decoded cache")
	return ds
}

func (s *Store) writeSidecar(path string, mtime int64, ds *Dataset) {
	raw, err := msgpack.Marshal(sidecar{SourceMtime: mtime, Series: ds.Series})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode snapshot cache")
		return
	}
	if err := os.WriteFile(sidecarPath(path), raw, 0o644); err != nil {
		s.log.Warn().Err(err).Msg("failed to write snapshot cache")
	}
}
