// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package results

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store reads and writes result records in a directory, one JSON file
// per query x strategy pair.
type Store struct {
	dir string
}

// NewStore returns a Store over dir. The directory is created lazily
// on the first Write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

// Write persists a record as {strategy}_{query_id}.json and returns
// the file path. A later run of the same pair overwrites the earlier
// record.
func (s *Store) Write(rec Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", rec.Strategy, rec.QueryID))
	if err := os.WriteFile(path, raw, 0o640); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return path, nil
}

// Load reads every record in the store. Files that cannot be parsed or
// coerced are logged and skipped, so one corrupt file never sinks an
// analysis run.
//
// Legacy single-result files (no query_id/tier) are coerced: the
// filename stem becomes the query ID and the tier is set to "legacy".
func (s *Store) Load() ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob results dir: %w", err)
	}

	var records []Record
	for _, path := range paths {
		rec, ok := loadRecord(path)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// loadRecord parses one result file, coercing legacy shapes.
func loadRecord(path string) (Record, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable result file", "path", path, "error", err)
		return Record{}, false
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		slog.Warn("skipping malformed result file", "path", path, "error", err)
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		slog.Warn("skipping uncoercible result file", "path", path, "error", err)
		return Record{}, false
	}

	_, hasQueryID := keys["query_id"]
	_, hasTier := keys["tier"]
	if hasQueryID && hasTier {
		return rec, true
	}

	// Legacy shape: needs at least a strategy and a timing to be usable.
	_, hasStrategy := keys["strategy"]
	_, hasTime := keys["execution_time"]
	if !hasStrategy || !hasTime {
		slog.Warn("skipping result file with unknown shape", "path", path)
		return Record{}, false
	}
	rec.QueryID = strings.TrimSuffix(filepath.Base(path), ".json")
	rec.Tier = "legacy"
	return rec, true
}

// Archive copies the current results into a timestamped directory
// under archiveDir and returns the new path.
func (s *Store) Archive(archiveDir string) (string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return "", fmt.Errorf("no results directory to archive: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(archiveDir, "results_"+stamp)
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return "", fmt.Errorf("glob results dir: %w", err)
	}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		out := filepath.Join(dest, filepath.Base(path))
		if err := os.WriteFile(out, raw, 0o640); err != nil {
			return "", fmt.Errorf("write %s: %w", out, err)
		}
	}
	return dest, nil
}

// Clean removes the results directory and everything in it.
func (s *Store) Clean() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("clean results dir: %w", err)
	}
	return nil
}

// Summarize counts result files per strategy prefix (the part of the
// filename before the first underscore).
func (s *Store) Summarize() (map[string]int, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob results dir: %w", err)
	}

	counts := make(map[string]int)
	for _, path := range paths {
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		idx := strings.Index(stem, "_")
		if idx < 0 {
			continue
		}
		counts[stem[:idx]]++
	}
	return counts, nil
}
