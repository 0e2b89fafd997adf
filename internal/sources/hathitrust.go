package sources

import (
	"fmt"
	"strings"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/filter"
	"github.com/ubleipzig/fincconv/internal/marc"
	"github.com/ubleipzig/fincconv/internal/vocab"
)

// hathiTrust reworks delivered MARC XML into finc MARC. Records are
// admitted by their LC call number against a configured allow-list;
// the record id is derived from the item URL.
type hathiTrust struct {
	rules filter.Chain
}

type hathiTrustSettings struct {
	FileMap string `mapstructure:"filemap"`
}

func init() {
	register(&Source{
		SID:         "35",
		Name:        "hathitrust",
		Description: "HathiTrust digital library (MARC XML to MARC)",
		InputExt:    "xml",
		OutputExt:   "mrc",
		New:         newHathiTrustRunner,
	})
}

func newHathiTrustRunner(cfg Config) (Runner, error) {
	var settings hathiTrustSettings

	if err := decodeSettings(cfg.Settings, &settings); err != nil {
		return nil, err
	}

	path := cfg.FileMap
	if path == "" {
		path = settings.FileMap
	}

	if path == "" {
		return nil, fmt.Errorf("source 35 requires a call number allow-list file")
	}

	list, err := vocab.LoadClassificationList(path)
	if err != nil {
		return nil, err
	}

	conv := &hathiTrust{
		rules: filter.Chain{
			filter.RequiredField{Spec: "856u"},
			filter.ClassificationMember{Spec: "050a", List: list},
		},
	}

	return &marcRunner{conv: conv, format: cfg.OutputFormat, next: marcXMLSources}, nil
}

func (c *hathiTrust) SID() string {
	return "35"
}

func (c *hathiTrust) Convert(src extract.FieldSource) (*marc.Record, error) {
	ms, ok := src.(*extract.MARCSource)
	if ok == false {
		return nil, fmt.Errorf("source 35 expects MARC input")
	}

	decision := c.rules.Check(src)
	if decision.Admit == false {
		return nil, skipf("%s", decision.Reason)
	}

	segment := lastURLSegment(decision.Values["856u"])
	if segment == "" {
		return nil, skipf("no usable path segment in url [%s]", decision.Values["856u"])
	}

	segment = strings.ReplaceAll(segment, ".", "")
	id := "35-" + segment

	record := ms.Record()

	record.BlankLeaderStatus()
	record.SetControl("001", id)
	record.AddControl("007", "cr")
	record.RemoveFields("082")
	record.AddData("980", "a", segment, "b", "35", "c", "sid-35-col-hathi")

	return record, nil
}

// lastURLSegment returns the final path segment of a URL, ignoring a
// trailing slash and any query string. A URL without a path yields "".
func lastURLSegment(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}

	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}

	i := strings.Index(u, "/")
	if i < 0 {
		return ""
	}

	path := strings.TrimRight(u[i+1:], "/")

	if j := strings.LastIndex(path, "/"); j >= 0 {
		path = path[j+1:]
	}

	return path
}
