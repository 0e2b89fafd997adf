package sources

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/segmentio/encoding/json"
)

// basefix cleans up discovery index documents from the BASE aggregator
// before ingest: the ISIL is rewritten, ids lose their base64 padding,
// oversized title and author values are cut to the facet length limit
// and publish dates are reduced to a year.
type basefix struct{}

// facet values beyond this length break index analysis
const basefixMaxLength = 4000

var basefixYearPattern = regexp.MustCompile(`[1-9][0-9][0-9][0-9]`)

func init() {
	register(&Source{
		SID:         "126",
		Name:        "basefix",
		Description: "BASE aggregator index documents (NDJSON cleanup)",
		InputExt:    "ndj",
		OutputExt:   "ndj",
		New:         newBasefixRunner,
	})
}

func newBasefixRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	return &basefix{}, nil
}

func (c *basefix) SID() string {
	return "126"
}

func (c *basefix) Run(ctx context.Context, in io.Reader, out io.Writer) (*RunStats, error) {
	stats := newRunStats(c.SID())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		stats.Read++

		// the ISIL appears in several fields; a byte level rewrite
		// covers them all
		line = bytes.ReplaceAll(line, []byte("DE-15-FID"), []byte("FID-MEDIEN-DE-15"))

		var doc map[string]interface{}

		if err := json.Unmarshal(line, &doc); err != nil {
			stats.Skipped++
			countRecord(stats.SID, "skipped")
			log.Printf("[RUN] source %s: malformed json line skipped: %s", stats.SID, err.Error())
			continue
		}

		c.fix(doc, stats)

		if err := enc.Encode(doc); err != nil {
			return stats, err
		}

		stats.Written++
		countRecord(stats.SID, "written")
	}

	if err := scanner.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}

func (c *basefix) fix(doc map[string]interface{}, stats *RunStats) {
	doc["recordtype"] = "default"

	if id, ok := doc["id"].(string); ok == true {
		doc["id"] = strings.ReplaceAll(id, "=", "")
	}

	for _, key := range []string{"title", "title_full", "title_short", "title_sort"} {
		if value, ok := doc[key].(string); ok == true {
			doc[key] = truncate(value, basefixMaxLength)
		}
	}

	switch author := doc["author"].(type) {
	case string:
		doc["author"] = truncate(author, basefixMaxLength)
		stats.countFix("author.isstr")

	case []interface{}:
		for i, v := range author {
			value, ok := v.(string)

			if ok == false || value == "" {
				stats.countFix("author.isempty")
				continue
			}

			author[i] = truncate(value, basefixMaxLength)
		}

		stats.countFix("author.islist")
	}

	if value, ok := doc["author_sort"].(string); ok == true {
		doc["author_sort"] = truncate(value, basefixMaxLength)
	}

	if facets, ok := doc["author_facet"].([]interface{}); ok == true {
		for i, v := range facets {
			if value, ok := v.(string); ok == true && value != "" {
				facets[i] = truncate(value, basefixMaxLength)
			}
		}
	}

	if date, ok := doc["publishDate"].(string); ok == true {
		if year := basefixYearPattern.FindString(date); year != "" {
			doc["publishDate"] = year
		}
	}
}

// truncate cuts a string to at most n runes, never splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
