package fitdna

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// ReferenceKey is the composite lookup key of the reference table:
// one entry per (age, gender, measurement item) triple.
type ReferenceKey struct {
	Age    int
	Gender Gender
	Item   string
}

// ReferenceEntry holds the population statistics of one (age, gender, item)
// group, produced by an offline job. Never mutated after load.
type ReferenceEntry struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Count int     `json:"count"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
}

// Table is the in-memory reference table. Read-only after construction,
// safe for concurrent use by any number of classification requests.
type Table struct {
	entries map[ReferenceKey]ReferenceEntry
}

func NewTable(entries map[ReferenceKey]ReferenceEntry) *Table {
	return &Table{entries: entries}
}

// Get returns the reference entry for the exact (age, gender, item) triple,
// or ErrReferenceMissing. No nearest-age or gender fallback.
func (t *Table) Get(age int, gender Gender, item string) (ReferenceEntry, error) {
	entry, ok := t.entries[ReferenceKey{Age: age, Gender: gender, Item: item}]
	if !ok {
		return ReferenceEntry{}, fmt.Errorf(
			"%w: age=%d gender=%s item=%s",
			ErrReferenceMissing, age, gender, item,
		)
	}
	return entry, nil
}

func (t *Table) Size() int {
	return len(t.entries)
}

// ReadTableJSON reads a reference table in the offline generator's JSON
// format: an object keyed by "<age>_<gender>_<item>", e.g. "25_M_grip_right".
func ReadTableJSON(r io.Reader) (*Table, error) {
	var raw map[string]ReferenceEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode reference table json: %w", err)
	}

	entries := make(map[ReferenceKey]ReferenceEntry, len(raw))
	for key, entry := range raw {
		parts := strings.SplitN(key, "_", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed reference table key: %q", key)
		}
		age, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed age in reference table key %q: %w", key, err)
		}
		gender := Gender(parts[1])
		if !gender.IsValid() {
			return nil, fmt.Errorf("malformed gender in reference table key: %q", key)
		}
		entries[ReferenceKey{Age: age, Gender: gender, Item: parts[2]}] = entry
	}

	return NewTable(entries), nil
}

// ReadTableSQLite loads a reference table from a read-only sqlite artifact
// with a single table: reference(age, gender, item, mean, std, count).
func ReadTableSQLite(path string) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open reference sqlite: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warnf("close reference sqlite: %s", closeErr)
		}
	}()

	rows, err := db.Query(`SELECT age, gender, item, mean, std, count FROM reference`)
	if err != nil {
		return nil, fmt.Errorf("query reference sqlite: %w", err)
	}
	defer rows.Close()

	entries := make(map[ReferenceKey]ReferenceEntry)
	for rows.Next() {
		var key ReferenceKey
		var entry ReferenceEntry
		if err := rows.Scan(
			&key.Age, &key.Gender, &key.Item,
			&entry.Mean, &entry.Std, &entry.Count,
		); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		if !key.Gender.IsValid() {
			return nil, fmt.Errorf("malformed gender in reference row: %q", key.Gender)
		}
		entries[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewTable(entries), nil
}

// ReadTableFile loads a reference table file, picking the format by extension
// (.json, or .db / .sqlite).
func ReadTableFile(path string) (*Table, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open reference table: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Warnf("close reference table file: %s", closeErr)
			}
		}()
		return ReadTableJSON(f)
	case ".db", ".sqlite":
		return ReadTableSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported reference table format: %q", ext)
	}
}

// Loader loads the reference table lazily, exactly once. The first caller
// triggers the load, concurrent callers block on the same sync.Once and then
// observe the cached result.
type Loader struct {
	path  string
	once  sync.Once
	table *Table
	err   error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Table() (*Table, error) {
	l.once.Do(func() {
		l.table, l.err = ReadTableFile(l.path)
		if l.err == nil {
			log.Debugf("reference table loaded: %d entries [%s]", l.table.Size(), l.path)
		}
	})
	return l.table, l.err
}
