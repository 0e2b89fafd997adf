package sources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/marc"
	"github.com/ubleipzig/fincconv/internal/vocab"
)

// gdmb converts the GDMB society bibliography (a JSON array export)
// into finc MARC. Delivered format labels are first normalized to a
// format group, the group then selects leader and carrier codes.
type gdmb struct {
	formats *vocab.MappingTable
}

var gdmbPagesPattern = regexp.MustCompile(`\D1-(\d+)`)

// gdmbFormats normalizes the delivered format labels.
var gdmbFormats = map[string]string{
	"Buch":                      "Buch",
	"Konferenzbericht":          "Buch",
	"Literaturzusammenstellung": "Buch",
	"Manuskript":                "Buch",
	"Proceedings":               "Buch",
	"Prospektmaterial":          "Buch",
	"Seminarvortrag":            "Buch",
	"Tagungsband":               "Buch",
	"Verzeichnis":               "Buch",
	"Wörterbuch":                "Buch",
	"Bericht":                   "Buch",
	"Tagungsbericht":            "Buch",
	"Diplomarbeit":              "Hochschulschrift",
	"Dissertation":              "Hochschulschrift",
	"Zeitschrift":               "Artikel",
	"Artikel":                   "Artikel",
	"Aufsatz":                   "Artikel",
	"Aufsatz Kinderzeitschrift": "Artikel",
	"Rezension":                 "Artikel",
	"Verweisung":                "Artikel",
	"Zeitschriftenartikel":      "Artikel",
	"Zeitungsartikel":           "Artikel",
	"Karte":                     "Karte",
	"Software":                  "Software",
	"CD-ROM":                    "Video",
	"Datenbank":                 "Webseite",
}

func init() {
	register(&Source{
		SID:         "131",
		Name:        "gdmb",
		Description: "GDMB society bibliography (JSON to MARC)",
		InputExt:    "json",
		OutputExt:   "mrc",
		New:         newGDMBRunner,
	})
}

func newGDMBRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	conv := &gdmb{formats: vocab.NewMappingTable("gdmb formats", gdmbFormats)}

	return &marcRunner{conv: conv, format: cfg.OutputFormat, next: jsonArraySources}, nil
}

func (c *gdmb) SID() string {
	return "131"
}

func (c *gdmb) Convert(src extract.FieldSource) (*marc.Record, error) {
	rawID := src.First("ID")
	title := src.First("TITLE")

	if rawID == "" || title == "" {
		return nil, skipf("missing ID or TITLE")
	}

	id := rawID
	if parts := strings.SplitN(rawID, "_", 2); len(parts) == 2 {
		id = parts[1]
	}

	format := src.First("FORMAT")

	// an unmapped label degrades to blank codes, the record is still
	// written
	group, _ := c.formats.Lookup(format)
	codes := vocab.FormatGroupCodes(group)

	record := marc.NewRecord()
	record.SetLeader(codes.Leader)
	record.AddControl("001", "finc-131-"+id)
	record.AddControl("007", codes.F007)
	record.AddControl("008", codes.F008)
	record.AddData("020", "a", src.First("ISBN"))

	authors := gdmbAuthors(src.First("AUTHOR"))

	if len(authors) > 0 {
		record.AddData("100", "a", authors[0])
	}

	record.AddData("245", "a", title)
	record.AddData("260", "c", src.First("YEAR"))

	volIssue := strings.Split(src.First("VOL_ISSUE"), "/")

	if len(volIssue) == 3 {
		pages := ""

		if match := gdmbPagesPattern.FindStringSubmatch(volIssue[2]); match != nil {
			pages = match[1] + " S."
		}

		record.AddData("300", "a", pages)
	}

	if group == "Hochschulschrift" {
		record.AddData("502", "a", src.First("CONT_TITLE"))
	}

	record.AddData("935", "b", codes.F935b, "c", codes.F935c)

	for _, keyword := range gdmbKeywords(src, format) {
		record.AddData("650", "a", keyword)
	}

	for _, author := range rest(authors) {
		author = strings.TrimSpace(author)

		if author != "" && author != "u.a." {
			record.AddData("700", "a", author)
		}
	}

	if group == "Artikel" {
		record.AddData("773", "t", src.First("CONT_TITLE"), "g", gdmbCitation(volIssue, src.First("YEAR")))
	}

	record.AddData("980", "a", id, "b", "131", "c", "gdmb")

	return record, nil
}

// gdmbAuthors splits the delivered author string. The placeholder
// values "N.N." and "Autorenteam" suppress all creators.
func gdmbAuthors(value string) []string {
	if value == "" || value == "N.N." || value == "Autorenteam" {
		return nil
	}

	return strings.Split(value, ";")
}

// gdmbKeywords drops the generic "Buch" and "Zeitschrift" labels from
// the delivered keywords and appends the substance and format labels
// when absent.
func gdmbKeywords(src extract.FieldSource, format string) []string {
	var keywords []string

	for _, keyword := range src.All("TOPIC_DETAILED") {
		if keyword != "Buch" && keyword != "Zeitschrift" {
			keywords = append(keywords, keyword)
		}
	}

	substance := src.First("SUBSTANCE")
	if substance != "" && sliceContainsString(keywords, substance) == false {
		keywords = append(keywords, substance)
	}

	if format != "Buch" && format != "Zeitschrift" && format != "" && sliceContainsString(keywords, format) == false {
		keywords = append(keywords, format)
	}

	return keywords
}

// gdmbCitation renders the host item note from the VOL_ISSUE segments.
func gdmbCitation(volIssue []string, year string) string {
	if len(volIssue) == 3 {
		return fmt.Sprintf("%s(%s) Heft %s, S. %s", volIssue[0], year, volIssue[1], volIssue[2])
	}

	return volIssue[0]
}

func sliceContainsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
