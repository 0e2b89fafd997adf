package sources

import (
	"strings"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/marc"
	"github.com/ubleipzig/fincconv/internal/vocab"
)

// geoscan converts the GEOSCAN research feed into finc MARC. Items are
// RSS entries with provider extension elements carrying language,
// author and abstract.
type geoscan struct{}

func init() {
	register(&Source{
		SID:         "129",
		Name:        "geoscan",
		Description: "GEOSCAN geoscience publications feed (RSS to MARC)",
		InputExt:    "xml",
		OutputExt:   "mrc",
		New:         newGeoscanRunner,
	})
}

func newGeoscanRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	return &marcRunner{conv: &geoscan{}, format: cfg.OutputFormat, next: feedSources}, nil
}

func (c *geoscan) SID() string {
	return "129"
}

func (c *geoscan) Convert(src extract.FieldSource) (*marc.Record, error) {
	guid := src.First("guid")
	if guid == "" {
		return nil, skipf("missing guid")
	}

	language := geoscanLanguage(src.First("geoscan_language"))
	authors := splitList(src.First("geoscan_author"), "; ")

	record := marc.NewRecord()
	record.SetLeader("     naa  22        4500")
	record.AddControl("001", "finc-129-"+guid)
	record.AddControl("007", "cr")
	record.AddData("041", "a", language)

	if len(authors) > 0 {
		record.AddData("100", "a", authors[0])
	}

	record.AddData("245", "a", src.First("title"))
	record.AddData("260", "a", src.First("geoscan_publisher"))
	record.AddData("520", "a", src.First("geoscan_abstract"))

	for _, author := range rest(authors) {
		record.AddData("700", "a", author)
	}

	record.AddData("856", "q", "text/html", "3", "Link zur Ressource", "u", src.First("link"))
	record.AddData("980", "a", guid, "b", "129", "c", "geoscan")

	return record, nil
}

// geoscanLanguage maps the feed's language names to MARC codes; unknown
// names are reported through the shared table and default to English.
func geoscanLanguage(name string) string {
	code, ok := vocab.Languages.Lookup(strings.TrimSpace(name))

	if ok == false {
		return "eng"
	}

	return code
}
