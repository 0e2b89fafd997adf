package sources

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"

	"github.com/segmentio/encoding/json"
)

// springer cleans up intermediate schema documents from the Springer
// delivery: markup fragments and TeX runs are stripped from titles,
// abstracts and subjects, and the mega collection is normalized to a
// list.
type springer struct{}

var (
	springerTagPattern = regexp.MustCompile(`<[^>]*>`)
	springerTeXPattern = regexp.MustCompile(`\$\$[^\$]*\$\$`)
)

func init() {
	register(&Source{
		SID:         "105",
		Name:        "springer",
		Description: "Springer journals (intermediate schema cleanup)",
		InputExt:    "ndj",
		OutputExt:   "ndj",
		New:         newSpringerRunner,
	})
}

func newSpringerRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	return &springer{}, nil
}

func (c *springer) SID() string {
	return "105"
}

func (c *springer) Run(ctx context.Context, in io.Reader, out io.Writer) (*RunStats, error) {
	stats := newRunStats(c.SID())

	next := ndjsonDocuments(in)
	enc := json.NewEncoder(out)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		doc, err := next()
		if err == io.EOF {
			break
		}

		switch {
		case errors.Is(err, ErrSkip) == true:
			stats.Read++
			stats.Skipped++
			countRecord(stats.SID, "skipped")
			log.Printf("[RUN] source %s: %s", stats.SID, err.Error())
			continue

		case err != nil:
			return stats, err
		}

		stats.Read++

		c.fix(doc)

		if err := enc.Encode(doc); err != nil {
			return stats, err
		}

		stats.Written++
		countRecord(stats.SID, "written")
	}

	return stats, nil
}

func (c *springer) fix(doc map[string]interface{}) {
	if abstract, ok := doc["abstract"].(string); ok == true {
		doc["abstract"] = stripMarkup(abstract)
	}

	if title, ok := doc["rft.atitle"].(string); ok == true {
		doc["rft.atitle"] = stripMarkup(title)
	}

	if subjects, ok := doc["x.subjects"].([]interface{}); ok == true {
		for i, subject := range subjects {
			if s, ok := subject.(string); ok == true {
				subjects[i] = stripMarkup(s)
			}
		}
	}

	if collection, ok := doc["finc.mega_collection"].(string); ok == true {
		doc["finc.mega_collection"] = []string{collection}
	}
}

// stripMarkup removes angle-bracket tags and $$...$$ TeX runs.
func stripMarkup(s string) string {
	return springerTeXPattern.ReplaceAllString(springerTagPattern.ReplaceAllString(s, ""), "")
}
