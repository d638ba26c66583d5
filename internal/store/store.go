// Package store persists the weekly dataset and digest artifacts as
// JSON files. Each week gets its own file; "latest" pointer files
// mirror the most recent week under fixed names.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fintechweekly/internal/models"
)

type Store struct {
	dataDir string
}

func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) SaveDataset(ds *models.Dataset) error {
	if err := s.writeJSON(fmt.Sprintf("news_%s.json", ds.Week), ds); err != nil {
		return err
	}
	return s.writeJSON("latest.json", ds)
}

// LoadDataset reads the dataset for week, or the latest one when week
// is empty. A missing artifact is an error: there is nothing sensible
// to default to.
func (s *Store) LoadDataset(week string) (*models.Dataset, error) {
	name := "latest.json"
	if week != "" {
		name = fmt.Sprintf("news_%s.json", week)
	}
	var ds models.Dataset
	if err := s.readJSON(name, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *Store) SaveDigest(d models.Digest) error {
	if err := s.writeJSON(fmt.Sprintf("summary_%s.json", d.Week), d); err != nil {
		return err
	}
	return s.writeJSON("latest_summary.json", d)
}

func (s *Store) LoadDigest(week string) (*models.Digest, error) {
	name := "latest_summary.json"
	if week != "" {
		name = fmt.Sprintf("summary_%s.json", week)
	}
	var d models.Digest
	if err := s.readJSON(name, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Weeks lists every week key with a stored dataset, newest first.
func (s *Store) Weeks() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dataDir, "news_*.json"))
	if err != nil {
		return nil, err
	}
	weeks := make([]string, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".json")
		weeks = append(weeks, strings.TrimPrefix(base, "news_"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	return weeks, nil
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(s.dataDir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
