package extract

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// LineXMLSource extracts fields from a single line of XML treated as
// text. This mirrors how a few feeds are shipped: one complete record
// element per line, queried with lightweight patterns instead of a full
// XML parse.
//
// A specifier that contains "</" is used verbatim as a regular
// expression whose first capture group is the value. Any other specifier
// is taken as an element name and matched as <name ...>value</name>.
type LineXMLSource struct {
	line string
}

// NewLineXMLSource wraps one record line.
func NewLineXMLSource(line string) *LineXMLSource {
	return &LineXMLSource{line: strings.TrimSuffix(line, "\n")}
}

var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

func compiledPattern(expr string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re := patternCache[expr]; re != nil {
		return re, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	patternCache[expr] = re
	return re, nil
}

func fieldPattern(spec string) (*regexp.Regexp, error) {
	if strings.Contains(spec, "</") {
		return compiledPattern(spec)
	}

	return compiledPattern(fmt.Sprintf(`<%s.*?>(.*?)</%s>`, spec, spec))
}

// First implements FieldSource. An invalid pattern yields "".
func (s *LineXMLSource) First(spec string) string {
	re, err := fieldPattern(spec)
	if err != nil {
		return ""
	}

	if m := re.FindStringSubmatch(s.line); m != nil {
		return m[1]
	}

	return ""
}

// All implements FieldSource. For element-name specifiers the whole run
// of repeated sibling elements is captured and split apart; this keeps
// repeats in document order.
func (s *LineXMLSource) All(spec string) []string {
	if strings.Contains(spec, "</") {
		re, err := compiledPattern(spec)
		if err != nil {
			return nil
		}

		var vals []string
		for _, m := range re.FindAllStringSubmatch(s.line, -1) {
			vals = append(vals, m[1])
		}
		return vals
	}

	re, err := compiledPattern(fmt.Sprintf(`(<%s.*?>.*</%s>)`, spec, spec))
	if err != nil {
		return nil
	}

	m := re.FindStringSubmatch(s.line)
	if m == nil {
		return nil
	}

	run := strings.ReplaceAll(m[1], fmt.Sprintf("<%s>", spec), "")

	var vals []string
	for _, v := range strings.Split(run, fmt.Sprintf("</%s>", spec)) {
		if v != "" {
			vals = append(vals, v)
		}
	}

	return vals
}

// Contains reports whether the raw line contains the literal fragment.
// Used for cheap record-level checks ahead of any extraction.
func (s *LineXMLSource) Contains(fragment string) bool {
	return strings.Contains(s.line, fragment)
}
