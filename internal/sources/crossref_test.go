package sources

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ubleipzig/fincconv/internal/resolve"
)

const crossrefInput = `{"DOI": "10.1016/j.foo.2020.01.001", "title": ["Colloid chemistry revisited"], ` +
	`"container-title": ["Advances in Colloid and Interface Science"], "publisher": "Elsevier Ltd.", ` +
	`"volume": "230", "issue": "2", "page": "101-110", "ISSN": ["0001-8686"], ` +
	`"abstract": "<jats:p>We revisit colloids.</jats:p>", "subject": ["Chemistry"], ` +
	`"author": [{"family": "Kumar", "given": "Anil"}, {"family": "Meyer"}], ` +
	`"issued": {"date-parts": [[2020, 3]]}}` + "\n" +
	`{"title": ["A work without a doi"]}` + "\n" +
	`{"DOI": "10.9999/unknown.1", "title": ["Obscure findings"], "publisher": "Obscure Press"}` + "\n"

func newCrossrefTestRunner(names map[string]string) Runner {
	conv := &crossref{
		resolver:   resolve.NewStaticResolver(names),
		unresolved: make(map[string]bool),
	}

	return &schemaRunner{conv: conv, next: ndjsonSources}
}

func TestCrossrefConversion(t *testing.T) {
	runner := newCrossrefTestRunner(map[string]string{"10.1016": "Elsevier BV"})

	stats, out := runSource(t, runner, crossrefInput)

	if stats.Read != 3 || stats.Written != 2 || stats.Skipped != 1 {
		t.Fatalf("Expected 3/2/1 read/written/skipped, got %v/%v/%v", stats.Read, stats.Written, stats.Skipped)
	}

	docs := decodeSchemaLines(t, out)
	if len(docs) != 2 {
		t.Fatalf("Expected 2 output documents, got %v", len(docs))
	}

	doc := docs[0]

	wantID := strings.TrimRight(base64.StdEncoding.EncodeToString(
		[]byte("https://doi.org/10.1016/j.foo.2020.01.001")), "=")

	if got := doc["finc.record_id"]; got != wantID {
		t.Fatalf("Expected record id [%s], got [%v]", wantID, got)
	}

	collection, _ := doc["finc.mega_collection"].([]interface{})
	if len(collection) != 1 || collection[0] != "Elsevier BV (CrossRef)" {
		t.Fatalf("Expected canonical collection label, got %v", doc["finc.mega_collection"])
	}

	if got := doc["rft.atitle"]; got != "Colloid chemistry revisited" {
		t.Fatalf("Expected article title, got [%v]", got)
	}

	if got := doc["rft.date"]; got != "2020-03" {
		t.Fatalf("Expected date at delivered precision, got [%v]", got)
	}

	if got := doc["rft.spage"]; got != "101" {
		t.Fatalf("Expected start page, got [%v]", got)
	}

	if got := doc["rft.epage"]; got != "110" {
		t.Fatalf("Expected end page, got [%v]", got)
	}

	if got := doc["abstract"]; got != "We revisit colloids." {
		t.Fatalf("Expected stripped abstract, got [%v]", got)
	}

	authors, _ := doc["authors"].([]interface{})
	if len(authors) != 2 {
		t.Fatalf("Expected 2 authors, got %v", doc["authors"])
	}

	first, _ := authors[0].(map[string]interface{})
	if got := first["rft.au"]; got != "Kumar, Anil" {
		t.Fatalf("Expected inverted name, got [%v]", got)
	}

	second, _ := authors[1].(map[string]interface{})
	if got := second["rft.au"]; got != "Meyer" {
		t.Fatalf("Expected family-only name, got [%v]", got)
	}

	// an unresolved prefix falls back to the delivered publisher
	fallback, _ := docs[1]["finc.mega_collection"].([]interface{})
	if len(fallback) != 1 || fallback[0] != "Obscure Press (CrossRef)" {
		t.Fatalf("Expected publisher fallback, got %v", docs[1]["finc.mega_collection"])
	}
}

func TestCrossrefSkipsMalformedLines(t *testing.T) {
	input := `{"DOI": "10.1016/j.foo.2020.01.001", "title": ["First"]}` + "\n" +
		"this is not json\n" +
		`{"DOI": "10.1016/j.foo.2020.01.002", "title": ["Second"]}` + "\n"

	runner := newCrossrefTestRunner(map[string]string{"10.1016": "Elsevier BV"})

	stats, out := runSource(t, runner, input)

	if stats.Read != 3 || stats.Written != 2 || stats.Skipped != 1 {
		t.Fatalf("Expected 3/2/1 read/written/skipped, got %v/%v/%v", stats.Read, stats.Written, stats.Skipped)
	}

	docs := decodeSchemaLines(t, out)
	if len(docs) != 2 {
		t.Fatalf("Expected 2 output documents, got %v", len(docs))
	}

	if got := docs[1]["rft.atitle"]; got != "Second" {
		t.Fatalf("Expected the record after the bad line, got [%v]", got)
	}
}

func TestCrossrefRunnerFromPrefixList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixes.tsv")

	if err := os.WriteFile(path, []byte("10.1016\tElsevier BV\n"), 0644); err != nil {
		t.Fatalf("writing prefix list: %s", err.Error())
	}

	runner := newTestRunner(t, "crossref", Config{Settings: map[string]interface{}{"prefixes": path}})

	stats, out := runSource(t, runner, crossrefInput)

	if stats.Written != 2 {
		t.Fatalf("Expected 2 written, got %v", stats.Written)
	}

	docs := decodeSchemaLines(t, out)

	collection, _ := docs[0]["finc.mega_collection"].([]interface{})
	if len(collection) != 1 || collection[0] != "Elsevier BV (CrossRef)" {
		t.Fatalf("Expected resolved collection label, got %v", docs[0]["finc.mega_collection"])
	}
}
