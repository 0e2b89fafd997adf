package sources

import (
	"testing"
)

const geoscanFeed = `<?xml version="1.0"?>
<rss version="2.0" xmlns:geoscan="https://geoscan.nrcan.gc.ca/geoscan">
  <channel>
    <title>GEOSCAN</title>
    <item>
      <title>Surficial geology, Repulse Bay</title>
      <guid>331409</guid>
      <link>https://geoscan.nrcan.gc.ca/record/331409</link>
      <geoscan:language>French</geoscan:language>
      <geoscan:author>Smith, J.; Doe, A.; Lee, K.</geoscan:author>
      <geoscan:publisher>Natural Resources Canada</geoscan:publisher>
      <geoscan:abstract>Till and glaciofluvial sediments.</geoscan:abstract>
    </item>
    <item>
      <title>Entry without a guid</title>
    </item>
    <item>
      <title>Bedrock mapping</title>
      <guid>331410</guid>
      <geoscan:language>Klingon</geoscan:language>
    </item>
  </channel>
</rss>`

func TestGeoscanConversion(t *testing.T) {
	runner := newTestRunner(t, "129", Config{})

	stats, out := runSource(t, runner, geoscanFeed)

	if stats.Read != 3 || stats.Written != 2 || stats.Skipped != 1 {
		t.Fatalf("Expected 3/2/1 read/written/skipped, got %v/%v/%v", stats.Read, stats.Written, stats.Skipped)
	}

	records := readBinaryRecords(t, out)
	if len(records) != 2 {
		t.Fatalf("Expected 2 output records, got %v", len(records))
	}

	record := records[0]

	if got := record.ControlValue("001"); got != "finc-129-331409" {
		t.Fatalf("Expected prefixed id, got [%s]", got)
	}

	if got := record.SubFieldValue("041", "a"); got != "fre" {
		t.Fatalf("Expected language code, got [%s]", got)
	}

	if got := record.SubFieldValue("100", "a"); got != "Smith, J." {
		t.Fatalf("Expected first author in 100, got [%s]", got)
	}

	additional := record.SubFieldValues("700", "a")
	if len(additional) != 2 || additional[0] != "Doe, A." || additional[1] != "Lee, K." {
		t.Fatalf("Expected remaining authors in order, got %v", additional)
	}

	if got := record.SubFieldValue("245", "a"); got != "Surficial geology, Repulse Bay" {
		t.Fatalf("Expected title, got [%s]", got)
	}

	if got := record.SubFieldValue("856", "u"); got != "https://geoscan.nrcan.gc.ca/record/331409" {
		t.Fatalf("Expected link, got [%s]", got)
	}

	if got := record.SubFieldValue("980", "a"); got != "331409" {
		t.Fatalf("Expected unprefixed id in 980a, got [%s]", got)
	}

	if got := record.SubFieldValue("980", "c"); got != "geoscan" {
		t.Fatalf("Expected collection, got [%s]", got)
	}

	// an unknown language degrades to English
	if got := records[1].SubFieldValue("041", "a"); got != "eng" {
		t.Fatalf("Expected default language, got [%s]", got)
	}
}
