package sources

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ubleipzig/fincconv/internal/marc"
)

func wustmannTestInput(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	writer := marc.NewWriter(&buf)

	record := marc.NewRecord()
	record.SetLeader("     nam  22        4500")
	record.AddControl("001", "0001-4321")
	record.AddData("245", "a", "Brief an Gustav Wustmann")
	record.AddData("912", "a", "0-0143884")

	if err := writer.Write(record); err != nil {
		t.Fatalf("writing input record: %s", err.Error())
	}

	return buf.String()
}

func TestWustmannConversion(t *testing.T) {
	runner := newTestRunner(t, "163", Config{})

	stats, out := runSource(t, runner, wustmannTestInput(t))

	if stats.Read != 1 || stats.Written != 1 {
		t.Fatalf("Expected 1/1 read/written, got %v/%v", stats.Read, stats.Written)
	}

	records := readBinaryRecords(t, out)
	if len(records) != 1 {
		t.Fatalf("Expected 1 output record, got %v", len(records))
	}

	record := records[0]

	if got := record.ControlValue("001"); got != "163-00014321" {
		t.Fatalf("Expected renumbered id, got [%s]", got)
	}

	if got := record.SubFieldValue("245", "a"); got != "Autographensammlung Wustmann" {
		t.Fatalf("Expected collection title, got [%s]", got)
	}

	if got := record.SubFieldValue("245", "p"); got != "Brief an Gustav Wustmann" {
		t.Fatalf("Expected nested title, got [%s]", got)
	}

	if got := record.SubFieldValue("773", "w"); got != "0-0143884" {
		t.Fatalf("Expected collection id in 773w, got [%s]", got)
	}

	if got := record.SubFieldValue("912", "a"); got != "" {
		t.Fatalf("Expected 912 to be dropped, got [%s]", got)
	}

	if got := record.SubFieldValue("980", "a"); got != "00014321" {
		t.Fatalf("Expected 980a id, got [%s]", got)
	}

	if got := record.SubFieldValue("980", "c"); got != "0-0143884" {
		t.Fatalf("Expected 980c collection id, got [%s]", got)
	}
}

func TestWustmannToleratesTruncatedTail(t *testing.T) {
	full := wustmannTestInput(t)

	// a complete record followed by the severed front of another
	input := full + full[:40]

	runner := newTestRunner(t, "163", Config{})

	stats, out := runSource(t, runner, input)

	if stats.Read != 2 || stats.Written != 1 || stats.Skipped != 1 {
		t.Fatalf("Expected 2/1/1 read/written/skipped, got %v/%v/%v", stats.Read, stats.Written, stats.Skipped)
	}

	records := readBinaryRecords(t, out)
	if len(records) != 1 {
		t.Fatalf("Expected 1 output record, got %v", len(records))
	}

	if got := records[0].ControlValue("001"); got != "163-00014321" {
		t.Fatalf("Expected the intact record, got [%s]", got)
	}
}

func TestWustmannGarbageInputFails(t *testing.T) {
	runner := newTestRunner(t, "163", Config{})

	var out bytes.Buffer

	_, err := runner.Run(context.Background(), strings.NewReader("00100 this never was a MARC stream"), &out)
	if err == nil {
		t.Fatalf("Expected a stream without a single valid record to fail")
	}
}
