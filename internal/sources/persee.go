package sources

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/marc"
)

// persee converts line-oriented Dublin Core XML into finc MARC. Every
// input line carries one flattened record; fields are pulled out with
// tag or capture-group specifiers.
type persee struct{}

var perseeExtentPattern = regexp.MustCompile(`(\d+)\D`)

func init() {
	register(&Source{
		SID:         "39",
		Name:        "persee",
		Description: "Persee.fr journal archive (line DC XML to MARC)",
		InputExt:    "xml",
		OutputExt:   "mrc",
		New:         newPerseeRunner,
	})
}

func newPerseeRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	return &marcRunner{conv: &persee{}, format: cfg.OutputFormat, next: lineSources}, nil
}

func (c *persee) SID() string {
	return "39"
}

func (c *persee) Convert(src extract.FieldSource) (*marc.Record, error) {
	line, ok := src.(*extract.LineXMLSource)
	if ok == false {
		return nil, fmt.Errorf("source 39 expects line XML input")
	}

	if line.Contains("<dcterms:accessRights>restricted</dcterms:accessRights>") == true {
		return nil, skipf("restricted access")
	}

	identifier := line.First(`<dc:identifier>(.*?)</dc:identifier>`)
	if identifier == "" {
		return nil, skipf("missing identifier")
	}

	id := strings.TrimRight(base64.StdEncoding.EncodeToString([]byte(identifier)), "=")

	issn := line.First(`<dc:identifier scheme="ISSN">issn:(.*?)</dc:identifier>`)
	language := line.First(`<dc:language>(.*?)</dc:language>`)
	date := line.First("dc:date")

	title, remainder := splitOnce(line.First("dc:title"), " : ")
	pubPlace, publisher := splitLeading(line.First("dc:publisher"), " : ")

	extent := line.First("dcterms:extent")
	if match := perseeExtentPattern.FindStringSubmatch(extent); match != nil {
		extent = match[1]
	}

	persons := line.All("dc:creator")

	volume := line.First(`dcterms:bibliographicCitation\.volume`)
	issue := line.First(`dcterms:bibliographicCitation\.issue`)
	spage := line.First(`dcterms:bibliographicCitation\.spage`)
	epage := line.First(`dcterms:bibliographicCitation\.epage`)
	citation := fmt.Sprintf("%s(%s)%s, S. %s-%s", volume, date, issue, spage, epage)

	record := marc.NewRecord()
	record.SetLeader("       b  22        450 ")
	record.AddControl("001", "finc-39-"+id)
	record.AddControl("007", "tu")
	record.AddControl("008", fmt.Sprintf("130227uu20uuuuuuxx uuup%s  c", language))
	record.AddData("022", "a", issn)
	record.AddData("041", "a", language)

	if len(persons) > 0 {
		record.AddData("100", "a", persons[0])
	}

	record.AddData("245", "a", title, "b", remainder)
	record.AddData("260", "a", pubPlace, "b", publisher, "c", date)
	record.AddData("300", "a", extent)
	record.AddData("500", "a", line.First(`dcterms:bibliographicCitation`))
	record.AddData("520", "a", line.First(`<dc:description xml:lang="\w\w\w">(.*?)</dc:description>`))

	for _, person := range rest(persons) {
		record.AddData("700", "a", person)
	}

	record.AddData("773",
		"a", line.First(`dcterms:bibliographicCitation\.jtitle`),
		"g", citation,
		"x", issn)

	record.AddData("856", "q", "text/html", "3", "Link zur Ressource", "u", identifier)

	if doi := line.First(`<dc:identifier scheme="DOI">(.*?)</dc:identifier>`); doi != "" {
		record.AddData("856", "q", "text/html", "3", "DOI", "u", "http://doi.org/"+doi)
	}

	for _, subject := range splitList(line.First(`<dc:subject xml:lang="\w\w\w">(.*?)</dc:subject>`), " ; ") {
		record.AddData("950", "a", subject)
	}

	record.AddData("980", "a", id, "b", "39", "c", "Persee.fr")

	return record, nil
}

// splitOnce cuts at the first occurrence of sep; without sep the whole
// value stays in the first part.
func splitOnce(value string, sep string) (string, string) {
	parts := strings.SplitN(value, sep, 2)

	if len(parts) == 2 {
		return parts[0], parts[1]
	}

	return value, ""
}

// splitLeading cuts at the first occurrence of sep, keeping the whole
// value in the SECOND part when sep is absent.
func splitLeading(value string, sep string) (string, string) {
	parts := strings.SplitN(value, sep, 2)

	if len(parts) == 2 {
		return parts[0], parts[1]
	}

	return "", value
}

// splitList splits on sep, dropping empty entries.
func splitList(value string, sep string) []string {
	var out []string

	for _, part := range strings.Split(value, sep) {
		part = strings.TrimSpace(part)

		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

// rest returns everything after the first element.
func rest(values []string) []string {
	if len(values) < 2 {
		return nil
	}

	return values[1:]
}
