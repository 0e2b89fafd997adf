package sources

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/ubleipzig/fincconv/internal/finc"
)

// elsevier converts an Elsevier journal delivery into intermediate
// schema documents. A delivery bundles journal properties, issue
// manifests and article documents; articles are joined with their issue
// for page numbers, volume, issue and date.
type elsevier struct{}

func init() {
	register(&Source{
		SID:         "85",
		Name:        "elsevier",
		Description: "Elsevier journal delivery (XML to intermediate schema)",
		InputExt:    "xml",
		OutputExt:   "ndj",
		New:         newElsevierRunner,
	})
}

func newElsevierRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	return &elsevier{}, nil
}

func (c *elsevier) SID() string {
	return "85"
}

type elsevierDelivery struct {
	Journals []elsevierJournal `xml:"dataset>journal-issue-properties"`
	Issues   []elsevierIssue   `xml:"issue"`
}

type elsevierJournal struct {
	ISSN  string `xml:"issn"`
	Title string `xml:"collection-title"`
}

type elsevierIssue struct {
	ISSNs     []string           `xml:"issn"`
	VolFirst  string             `xml:"vol-first"`
	IssFirst  string             `xml:"iss-first"`
	StartDate string             `xml:"start-date"`
	Items     []elsevierItem     `xml:"include-item"`
	Documents []elsevierDocument `xml:"document"`
}

type elsevierItem struct {
	DOI       string `xml:"doi"`
	FirstPage string `xml:"first-page"`
	LastPage  string `xml:"last-page"`
}

type elsevierDocument struct {
	DOI      string           `xml:"doi"`
	Title    string           `xml:"title"`
	Abstract string           `xml:"abstract"`
	Authors  []elsevierAuthor `xml:"author"`
	Keywords []string         `xml:"keywords>text"`
}

type elsevierAuthor struct {
	Surname   string `xml:"surname"`
	GivenName string `xml:"given-name"`
}

func (c *elsevier) Run(ctx context.Context, in io.Reader, out io.Writer) (*RunStats, error) {
	stats := newRunStats(c.SID())

	data, err := io.ReadAll(in)
	if err != nil {
		return stats, err
	}

	var delivery elsevierDelivery

	if err := xml.Unmarshal(data, &delivery); err != nil {
		return stats, fmt.Errorf("cannot parse delivery: %s", err.Error())
	}

	titles := make(map[string]string)
	for _, journal := range delivery.Journals {
		titles[journal.ISSN] = journal.Title
	}

	enc := json.NewEncoder(out)

	for _, issue := range delivery.Issues {
		for _, doc := range issue.Documents {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			stats.Read++

			if doc.DOI == "" {
				stats.Skipped++
				countRecord(stats.SID, "skipped")
				log.Printf("[RUN] source 85: document without doi skipped")
				continue
			}

			record := c.convert(&issue, &doc, titles)

			if err := enc.Encode(record); err != nil {
				return stats, err
			}

			stats.Written++
			countRecord(stats.SID, "written")
		}
	}

	return stats, nil
}

func (c *elsevier) convert(issue *elsevierIssue, doc *elsevierDocument, titles map[string]string) *finc.IntermediateSchema {
	url := "http://dx.doi.org/" + doc.DOI

	record := &finc.IntermediateSchema{
		Format:         finc.FormatElectronicArticle,
		MegaCollection: []string{"Elsevier Journals"},
		SourceID:       "85",
		RecordID:       strings.TrimRight(base64.StdEncoding.EncodeToString([]byte(url)), "="),
		Genre:          finc.GenreArticle,
		ArticleTitle:   strings.TrimSpace(doc.Title),
		ISSN:           issue.ISSNs,
		DOI:            doc.DOI,
		URL:            []string{url},
		Abstract:       cleanAbstract(doc.Abstract),
		Subjects:       doc.Keywords,
		Volume:         issue.VolFirst,
		Issue:          issue.IssFirst,
		Date:           issue.StartDate,
	}

	if len(issue.ISSNs) > 0 {
		record.JournalTitle = titles[issue.ISSNs[0]]
	}

	for _, author := range doc.Authors {
		record.Authors = append(record.Authors, finc.Author{
			Name: author.Surname + ", " + author.GivenName,
		})
	}

	for _, item := range issue.Items {
		if item.DOI != doc.DOI {
			continue
		}

		record.StartPage = item.FirstPage
		record.EndPage = item.LastPage

		if item.FirstPage != "" && item.LastPage != "" {
			first, errFirst := strconv.Atoi(item.FirstPage)
			last, errLast := strconv.Atoi(item.LastPage)

			if errFirst == nil && errLast == nil {
				record.Pages = strconv.Itoa(last - first)
			} else {
				log.Printf("[RUN] source 85: cannot parse page numbers for %s: %s-%s", doc.DOI, item.FirstPage, item.LastPage)
			}
		}
	}

	return record
}

// cleanAbstract strips the boilerplate lead-ins and bullet markers the
// full text delivery leaves in abstracts.
func cleanAbstract(abstract string) string {
	abstract = strings.TrimSpace(abstract)

	if strings.HasPrefix(abstract, "Abstract") == true {
		abstract = strings.Replace(abstract, "Abstract", "", 1)
	}

	if strings.HasPrefix(abstract, "Highlights•") == true {
		abstract = strings.Replace(abstract, "Highlights•", "", 1)
	}

	return strings.TrimSpace(strings.ReplaceAll(abstract, "•", " "))
}
