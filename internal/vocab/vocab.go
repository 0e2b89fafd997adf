// Package vocab holds the controlled vocabularies the converters map
// against: format code tables, language codes, and classification
// allow-lists. Lookups distinguish "mapped to empty" from "not mapped".
package vocab

import (
	"log"
	"sort"
	"sync"
)

// MappingTable is an exact-match string table. A key can legitimately
// map to the empty string; Lookup's second return separates that case
// from an unknown key.
type MappingTable struct {
	name    string
	entries map[string]string

	mu       sync.Mutex
	unmapped map[string]int
}

// NewMappingTable creates a named table from its entries. The name only
// appears in log output.
func NewMappingTable(name string, entries map[string]string) *MappingTable {
	return &MappingTable{
		name:     name,
		entries:  entries,
		unmapped: make(map[string]int),
	}
}

// Lookup returns the mapped value for key. Every unknown occurrence is
// counted and logged, so a run's log carries the full unmapped trail.
func (t *MappingTable) Lookup(key string) (string, bool) {
	value, ok := t.entries[key]

	if ok == false {
		t.mu.Lock()
		t.unmapped[key]++
		t.mu.Unlock()

		log.Printf("[VOCAB] %s: unmapped value: [%s]", t.name, key)
	}

	return value, ok
}

// Unmapped returns the keys seen without a mapping, with occurrence
// counts, sorted by key.
func (t *MappingTable) Unmapped() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.unmapped))
	for k, v := range t.unmapped {
		out[k] = v
	}

	return out
}

// UnmappedKeys returns the unmapped keys sorted, for summary logging.
func (t *MappingTable) UnmappedKeys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]string, 0, len(t.unmapped))
	for k := range t.unmapped {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
