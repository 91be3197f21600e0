// Package csvstore persists each record type as a flat CSV file with a header
// row and string-typed fields. Tables are loaded wholesale into an in-process
// cache which is invalidated after every mutation, so the next read reflects
// the latest persisted state. Single-writer assumption: the store guards its
// own tables with a mutex but nothing protects against concurrent processes.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Row is one record keyed by column name. Missing cells read as "".
type Row map[string]string

// Clone copies the row. Rows returned by Load are shared through the cache,
// so callers modify a clone, never the original.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string][]Row
}

func New(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string][]Row),
	}
}

func (s *Store) path(t Table) string {
	return filepath.Join(s.dir, t.Name+".csv")
}

// Bootstrap creates any missing backing file with a header-only body and
// upgrades existing files to the current schema: missing columns are added
// backfilled with "", required columns are moved to the front, and extra
// columns plus all existing data are preserved.
func (s *Store) Bootstrap() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for _, t := range AllTables {
		if err := s.ensure(t); err != nil {
			return err
		}
		if err := s.upgrade(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensure(t Table) error {
	path := s.path(t)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return writeAll(path, t.Columns, nil)
}

func (s *Store) upgrade(t Table) error {
	header, records, err := readAll(s.path(t))
	if err != nil {
		return err
	}

	changed := false

	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[col] = true
	}
	for _, col := range t.Columns {
		if !have[col] {
			header = append(header, col)
			have[col] = true
			changed = true
		}
	}

	// Required columns first, extras keep their relative order.
	required := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		required[col] = true
	}
	ordered := append([]string{}, t.Columns...)
	for _, col := range header {
		if !required[col] {
			ordered = append(ordered, col)
		}
	}
	if !equalStrings(header, ordered) {
		changed = true
	}

	if !changed {
		return nil
	}

	rows := toRows(header, records)
	return writeAll(s.path(t), ordered, projectRows(ordered, rows))
}

// Load returns the full table, reading from the backing file on a cache miss.
// Callers must treat the returned rows as read-only; mutations go through
// Append, Overwrite or Update.
func (s *Store) Load(t Table) ([]Row, error) {
	s.mu.RLock()
	rows, ok := s.cache[t.Name]
	s.mu.RUnlock()
	if ok {
		return rows, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rows, ok := s.cache[t.Name]; ok {
		return rows, nil
	}
	rows, err := s.loadLocked(t)
	if err != nil {
		return nil, err
	}
	s.cache[t.Name] = rows
	return rows, nil
}

func (s *Store) loadLocked(t Table) ([]Row, error) {
	header, records, err := readAll(s.path(t))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return toRows(header, records), nil
}

// Append writes one row to the end of the table, creating the file with a
// header if absent, and invalidates the table's cached copy.
func (s *Store) Append(t Table, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(t)
	header, err := readHeader(path)
	if err != nil {
		// Missing or empty file: the schema header gets written below.
		if !os.IsNotExist(err) && !errors.Is(err, io.EOF) {
			return err
		}
		header = t.Columns
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	record := make([]string, len(header))
	for i, col := range header {
		record[i] = row[col]
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	delete(s.cache, t.Name)
	return nil
}

// Overwrite replaces the entire backing content with the given rows and
// invalidates the table's cached copy. Columns beyond the required set that
// appear in the rows are preserved after the required ones.
func (s *Store) Overwrite(t Table, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overwriteLocked(t, rows)
}

func (s *Store) overwriteLocked(t Table, rows []Row) error {
	header := append([]string{}, t.Columns...)
	required := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		required[col] = true
	}
	extras := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !required[col] && !extras[col] {
				extras[col] = true
			}
		}
	}
	if len(extras) > 0 {
		keys := make([]string, 0, len(extras))
		for col := range extras {
			keys = append(keys, col)
		}
		sort.Strings(keys)
		header = append(header, keys...)
	}

	if err := writeAll(s.path(t), header, projectRows(header, rows)); err != nil {
		return err
	}
	delete(s.cache, t.Name)
	return nil
}

// Update runs a read-modify-write cycle under the write lock, making
// toggle-style mutations atomic within the process. fn receives the current
// rows and returns the replacement set.
func (s *Store) Update(t Table, fn func(rows []Row) ([]Row, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.cache[t.Name]
	if !ok {
		var err error
		rows, err = s.loadLocked(t)
		if err != nil {
			return err
		}
	}
	next, err := fn(rows)
	if err != nil {
		return err
	}
	return s.overwriteLocked(t, next)
}

// Invalidate drops the cached copies of the given tables, forcing the next
// Load to re-read from disk.
func (s *Store) Invalidate(tables ...Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tables {
		delete(s.cache, t.Name)
	}
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return header, nil
}

func readAll(path string) (header []string, records [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

func writeAll(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func toRows(header []string, records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func projectRows(header []string, rows []Row) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = row[col]
		}
		records = append(records, record)
	}
	return records
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
