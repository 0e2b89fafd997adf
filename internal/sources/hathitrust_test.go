package sources

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCallNumberList(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "callnumbers.txt")

	if err := os.WriteFile(path, []byte("# media studies call number ranges\n^QA75\n^QA76\n"), 0644); err != nil {
		t.Fatalf("writing allow-list: %s", err.Error())
	}

	return path
}

const hathiTrustInput = `<?xml version="1.0"?>
<collection xmlns="http://www.loc.gov/MARC21/slim">
  <record>
    <leader>01234cam a2200301 a 4500</leader>
    <controlfield tag="001">012345678</controlfield>
    <datafield tag="050" ind1=" " ind2=" ">
      <subfield code="a">QA76.73.P98</subfield>
    </datafield>
    <datafield tag="082" ind1=" " ind2=" ">
      <subfield code="a">005.133</subfield>
    </datafield>
    <datafield tag="245" ind1=" " ind2=" ">
      <subfield code="a">Programming pearls</subfield>
    </datafield>
    <datafield tag="856" ind1=" " ind2=" ">
      <subfield code="u">https://babel.example.org/cgi/pt/abc.123?urlappend=x</subfield>
    </datafield>
  </record>
  <record>
    <leader>01234cam a2200301 a 4500</leader>
    <controlfield tag="001">012345679</controlfield>
    <datafield tag="050" ind1=" " ind2=" ">
      <subfield code="a">HF5001.A1</subfield>
    </datafield>
    <datafield tag="856" ind1=" " ind2=" ">
      <subfield code="u">https://babel.example.org/cgi/pt/def.456</subfield>
    </datafield>
  </record>
  <record>
    <leader>01234cam a2200301 a 4500</leader>
    <controlfield tag="001">012345680</controlfield>
    <datafield tag="050" ind1=" " ind2=" ">
      <subfield code="a">QA76.9</subfield>
    </datafield>
  </record>
</collection>`

func TestHathiTrustConversion(t *testing.T) {
	runner := newTestRunner(t, "35", Config{FileMap: writeCallNumberList(t)})

	stats, out := runSource(t, runner, hathiTrustInput)

	if stats.Read != 3 || stats.Written != 1 || stats.Skipped != 2 {
		t.Fatalf("Expected 3/1/2 read/written/skipped, got %v/%v/%v", stats.Read, stats.Written, stats.Skipped)
	}

	records := readBinaryRecords(t, out)
	if len(records) != 1 {
		t.Fatalf("Expected 1 output record, got %v", len(records))
	}

	record := records[0]

	if got := record.ControlValue("001"); got != "35-abc123" {
		t.Fatalf("Expected id derived from url, got [%s]", got)
	}

	if got := record.ControlValue("007"); got != "cr" {
		t.Fatalf("Expected 007 [cr], got [%s]", got)
	}

	if got := record.SubFieldValue("082", "a"); got != "" {
		t.Fatalf("Expected 082 to be dropped, got [%s]", got)
	}

	if got := record.SubFieldValue("245", "a"); got != "Programming pearls" {
		t.Fatalf("Expected title to survive, got [%s]", got)
	}

	if got := record.SubFieldValue("980", "a"); got != "abc123" {
		t.Fatalf("Expected unprefixed id in 980a, got [%s]", got)
	}

	if got := record.SubFieldValue("980", "c"); got != "sid-35-col-hathi" {
		t.Fatalf("Expected 980c collection, got [%s]", got)
	}

	// same input, same bytes
	_, again := runSource(t, newTestRunner(t, "35", Config{FileMap: writeCallNumberList(t)}), hathiTrustInput)

	if bytes.Equal(out, again) == false {
		t.Fatalf("Expected deterministic output")
	}
}

func TestHathiTrustXMLOutput(t *testing.T) {
	runner := newTestRunner(t, "35", Config{FileMap: writeCallNumberList(t), OutputFormat: FormatXML})

	_, out := runSource(t, runner, hathiTrustInput)

	doc := string(out)

	if strings.Contains(doc, "<collection") == false || strings.Contains(doc, "</collection>") == false {
		t.Fatalf("Expected a MARCXML collection, got: %s", doc)
	}

	if strings.Contains(doc, `<controlfield tag="001">35-abc123</controlfield>`) == false {
		t.Fatalf("Expected converted id in XML output, got: %s", doc)
	}
}

func TestHathiTrustRequiresAllowList(t *testing.T) {
	src, _ := Lookup("35")

	if _, err := src.New(Config{}); err == nil {
		t.Fatalf("Expected construction without an allow-list to fail")
	}
}
