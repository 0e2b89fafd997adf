package sources

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ubleipzig/fincconv/internal/marc"
)

func newTestRunner(t *testing.T, key string, cfg Config) Runner {
	t.Helper()

	src, ok := Lookup(key)
	if ok == false {
		t.Fatalf("source [%s] is not registered", key)
	}

	runner, err := src.New(cfg)
	if err != nil {
		t.Fatalf("constructing source [%s]: %s", key, err.Error())
	}

	return runner
}

func runSource(t *testing.T, runner Runner, input string) (*RunStats, []byte) {
	t.Helper()

	var out bytes.Buffer

	stats, err := runner.Run(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("run: %s", err.Error())
	}

	return stats, out.Bytes()
}

func readBinaryRecords(t *testing.T, data []byte) []*marc.Record {
	t.Helper()

	var records []*marc.Record

	reader := marc.NewReader(bytes.NewReader(data))
	for reader.Next() {
		records = append(records, reader.Record())
	}

	if err := reader.Err(); err != nil {
		t.Fatalf("reading output: %s", err.Error())
	}

	return records
}

func TestRegistryLookup(t *testing.T) {
	bySID, ok := Lookup("35")
	if ok == false {
		t.Fatalf("Expected source 35 to be registered")
	}

	byName, ok := Lookup("hathitrust")
	if ok == false {
		t.Fatalf("Expected lookup by name to work")
	}

	if bySID != byName {
		t.Fatalf("Expected SID and name lookups to yield the same source")
	}

	if _, ok := Lookup("no-such-source"); ok == true {
		t.Fatalf("Expected unknown key to fail")
	}
}

func TestRegistryAll(t *testing.T) {
	all := All()

	if len(all) != 9 {
		t.Fatalf("Expected 9 sources, got %v", len(all))
	}

	seen := make(map[string]bool)

	for i, src := range all {
		if seen[src.SID] == true {
			t.Fatalf("Duplicate SID [%s]", src.SID)
		}
		seen[src.SID] = true

		if i > 0 && all[i-1].SID >= src.SID {
			t.Fatalf("Expected sources sorted by SID, got [%s] before [%s]", all[i-1].SID, src.SID)
		}
	}
}

func TestDecodeSettingsRejectsUnknownKeys(t *testing.T) {
	err := decodeSettings(map[string]interface{}{"bogus": 1}, &struct{}{})

	if err == nil {
		t.Fatalf("Expected unknown settings key to be rejected")
	}
}
