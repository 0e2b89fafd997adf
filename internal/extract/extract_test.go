package extract

import (
	"strings"
	"testing"

	"github.com/ubleipzig/fincconv/internal/marc"
)

func TestJSONSourcePaths(t *testing.T) {
	src, err := ParseJSONSource([]byte(`{
		"ID": "gdmb_4711",
		"YEAR": 1999,
		"TOPIC_DETAILED": ["Kupfer", "Buch", "Zink"],
		"nested": {"inner": "value"}
	}`))
	if err != nil {
		t.Fatalf("parse: %s", err.Error())
	}

	if got := src.First("ID"); got != "gdmb_4711" {
		t.Fatalf("Expected [gdmb_4711], got [%s]", got)
	}

	if got := src.First("YEAR"); got != "1999" {
		t.Fatalf("Expected [1999], got [%s]", got)
	}

	if got := src.First("nested.inner"); got != "value" {
		t.Fatalf("Expected [value], got [%s]", got)
	}

	if got := src.All("TOPIC_DETAILED"); len(got) != 3 || got[0] != "Kupfer" {
		t.Fatalf("Expected 3 ordered values, got %v", got)
	}

	if got := src.First("MISSING"); got != "" {
		t.Fatalf("Expected empty value for absent field, got [%s]", got)
	}
}

func TestLineXMLSourceFields(t *testing.T) {
	line := `<record><dc:title>Foo : bar : baz</dc:title>` +
		`<dc:creator>Smith, J.</dc:creator><dc:creator>Doe, A.</dc:creator><dc:creator>Lee, K.</dc:creator>` +
		`<dc:identifier scheme="ISSN">issn:1234-5678</dc:identifier></record>`

	src := NewLineXMLSource(line)

	if got := src.First("dc:title"); got != "Foo : bar : baz" {
		t.Fatalf("Expected title, got [%s]", got)
	}

	creators := src.All("dc:creator")
	if len(creators) != 3 || creators[0] != "Smith, J." || creators[2] != "Lee, K." {
		t.Fatalf("Expected ordered creators, got %v", creators)
	}

	if got := src.First(`<dc:identifier scheme="ISSN">issn:(.*)</dc:identifier>`); got != "1234-5678" {
		t.Fatalf("Expected [1234-5678], got [%s]", got)
	}

	if src.Contains("scheme=\"ISSN\"") == false {
		t.Fatalf("Expected fragment to be found")
	}

	if got := src.First("dc:missing"); got != "" {
		t.Fatalf("Expected empty value for absent element, got [%s]", got)
	}
}

func TestFeedItemSources(t *testing.T) {
	feed := `<?xml version="1.0"?>
<rss version="2.0" xmlns:geoscan="https://geoscan.example.org/geoscan">
  <channel>
    <title>GEOSCAN</title>
    <item>
      <title>Surficial geology</title>
      <guid>331409</guid>
      <link>https://geoscan.example.org/record/331409</link>
      <geoscan:language>French</geoscan:language>
      <geoscan:author>Smith, J.; Doe, A.; Lee, K.</geoscan:author>
    </item>
    <item>
      <title>Bedrock mapping</title>
      <guid>331410</guid>
      <geoscan:language>English</geoscan:language>
    </item>
  </channel>
</rss>`

	items, err := ParseFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("parse: %s", err.Error())
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %v", len(items))
	}

	first := items[0]

	if got := first.First("title"); got != "Surficial geology" {
		t.Fatalf("Expected item title, got [%s]", got)
	}

	if got := first.First("guid"); got != "331409" {
		t.Fatalf("Expected guid, got [%s]", got)
	}

	if got := first.First("geoscan_language"); got != "French" {
		t.Fatalf("Expected extension element value, got [%s]", got)
	}

	if got := items[1].First("link"); got != "" {
		t.Fatalf("Expected empty link on second item, got [%s]", got)
	}
}

func TestFeedAtomEntries(t *testing.T) {
	feed := `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>GEOSCAN</title>
  <entry>
    <title>Till geochemistry</title>
    <id>331500</id>
    <link href="https://geoscan.example.org/record/331500"/>
  </entry>
</feed>`

	items, err := ParseFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("parse: %s", err.Error())
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 entry, got %v", len(items))
	}

	if got := items[0].First("link"); got != "https://geoscan.example.org/record/331500" {
		t.Fatalf("Expected href value, got [%s]", got)
	}

	if got := items[0].First("title"); got != "Till geochemistry" {
		t.Fatalf("Expected entry title, got [%s]", got)
	}
}

func TestMARCSourceSpecs(t *testing.T) {
	r := marc.NewRecord()
	r.AddControl("001", "0000-1234")
	r.AddData("050", "a", "QA76.73.P98")
	r.AddData("856", "u", "https://example.org/items/abc.123")
	r.AddData("856", "u", "https://example.org/items/def.456")

	src := NewMARCSource(r)

	if got := src.First("001"); got != "0000-1234" {
		t.Fatalf("Expected control value, got [%s]", got)
	}

	if got := src.First("856u"); got != "https://example.org/items/abc.123" {
		t.Fatalf("Expected first 856$u, got [%s]", got)
	}

	if got := src.All("856u"); len(got) != 2 || got[1] != "https://example.org/items/def.456" {
		t.Fatalf("Expected both 856$u values, got %v", got)
	}

	if got := src.First("050a"); got != "QA76.73.P98" {
		t.Fatalf("Expected call number, got [%s]", got)
	}
}
