package sources

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/finc"
	"github.com/ubleipzig/fincconv/internal/resolve"
)

// crossref converts Crossref works metadata into intermediate schema
// documents. The collection label comes from the canonical member name
// of the work's DOI prefix, so renamed publishers keep a stable label.
type crossref struct {
	resolver resolve.Resolver

	mu         sync.Mutex
	unresolved map[string]bool
}

type crossrefSettings struct {
	CachePath  string `mapstructure:"cache"`
	PrefixList string `mapstructure:"prefixes"`
	MembersAPI string `mapstructure:"members_api"`
}

func init() {
	register(&Source{
		SID:         "49",
		Name:        "crossref",
		Description: "Crossref works metadata (NDJSON to intermediate schema)",
		InputExt:    "ndj",
		OutputExt:   "ndj",
		New:         newCrossrefRunner,
	})
}

func newCrossrefRunner(cfg Config) (Runner, error) {
	var settings crossrefSettings

	if err := decodeSettings(cfg.Settings, &settings); err != nil {
		return nil, err
	}

	resolver, err := newCrossrefResolver(&settings)
	if err != nil {
		return nil, err
	}

	conv := &crossref{resolver: resolver, unresolved: make(map[string]bool)}

	return &schemaRunner{conv: conv, next: ndjsonSources}, nil
}

func newCrossrefResolver(settings *crossrefSettings) (resolve.Resolver, error) {
	if settings.PrefixList != "" {
		return resolve.LoadPrefixList(settings.PrefixList)
	}

	api := resolve.NewCrossrefResolver(settings.MembersAPI)

	if settings.CachePath != "" {
		return resolve.OpenCache(settings.CachePath, api)
	}

	return api, nil
}

func (c *crossref) SID() string {
	return "49"
}

// crossrefWork is the slice of the works message the converter maps.
type crossrefWork struct {
	DOI            string   `mapstructure:"DOI"`
	Title          []string `mapstructure:"title"`
	ContainerTitle []string `mapstructure:"container-title"`
	Publisher      string   `mapstructure:"publisher"`
	Volume         string   `mapstructure:"volume"`
	Issue          string   `mapstructure:"issue"`
	Page           string   `mapstructure:"page"`
	ISSN           []string `mapstructure:"ISSN"`
	URL            string   `mapstructure:"URL"`
	Abstract       string   `mapstructure:"abstract"`
	Subject        []string `mapstructure:"subject"`

	Authors []struct {
		Family string `mapstructure:"family"`
		Given  string `mapstructure:"given"`
	} `mapstructure:"author"`

	Issued struct {
		DateParts [][]int `mapstructure:"date-parts"`
	} `mapstructure:"issued"`
}

func (c *crossref) ConvertSchema(ctx context.Context, src extract.FieldSource) (*finc.IntermediateSchema, error) {
	js, ok := src.(*extract.JSONSource)
	if ok == false {
		return nil, fmt.Errorf("source 49 expects JSON input")
	}

	var work crossrefWork

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &work,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(js.Doc()); err != nil {
		return nil, skipf("malformed work: %s", err.Error())
	}

	if work.DOI == "" {
		return nil, skipf("missing doi")
	}

	url := "https://doi.org/" + work.DOI

	record := &finc.IntermediateSchema{
		Format:         finc.FormatElectronicArticle,
		MegaCollection: []string{c.collection(ctx, &work)},
		SourceID:       "49",
		RecordID:       strings.TrimRight(base64.StdEncoding.EncodeToString([]byte(url)), "="),
		Genre:          finc.GenreArticle,
		Volume:         work.Volume,
		Issue:          work.Issue,
		ISSN:           work.ISSN,
		DOI:            work.DOI,
		URL:            []string{url},
		Abstract:       stripMarkup(work.Abstract),
		Subjects:       work.Subject,
		Date:           crossrefDate(work.Issued.DateParts),
	}

	if len(work.Title) > 0 {
		record.ArticleTitle = work.Title[0]
	}

	if len(work.ContainerTitle) > 0 {
		record.JournalTitle = work.ContainerTitle[0]
	}

	spage, epage := splitOnce(work.Page, "-")
	record.StartPage = spage
	record.EndPage = epage
	record.Pages = work.Page

	for _, author := range work.Authors {
		name := author.Family
		if author.Given != "" {
			name = author.Family + ", " + author.Given
		}

		if name != "" {
			record.Authors = append(record.Authors, finc.Author{Name: name})
		}
	}

	return record, nil
}

// collection builds the collection label from the canonical member
// name; when the prefix does not resolve, the delivered publisher name
// is used and the miss is logged once.
func (c *crossref) collection(ctx context.Context, work *crossrefWork) string {
	prefix, _ := splitOnce(work.DOI, "/")

	name, found, err := c.resolver.Resolve(ctx, prefix)

	if err != nil || found == false {
		c.mu.Lock()
		first := c.unresolved[prefix] == false
		c.unresolved[prefix] = true
		c.mu.Unlock()

		if first == true {
			if err != nil {
				log.Printf("[RUN] source 49: resolving prefix [%s] failed: %s", prefix, err.Error())
			} else {
				log.Printf("[RUN] source 49: no member name for prefix [%s]", prefix)
			}
		}

		name = work.Publisher
	}

	if name == "" {
		return "CrossRef"
	}

	return name + " (CrossRef)"
}

// crossrefDate renders the first date-parts entry as an ISO date,
// truncated to the precision delivered.
func crossrefDate(parts [][]int) string {
	if len(parts) == 0 || len(parts[0]) == 0 {
		return ""
	}

	p := parts[0]

	switch len(p) {
	case 1:
		return fmt.Sprintf("%04d", p[0])

	case 2:
		return fmt.Sprintf("%04d-%02d", p[0], p[1])
	}

	return fmt.Sprintf("%04d-%02d-%02d", p[0], p[1], p[2])
}
