package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ClassificationList is an ordered list of call number patterns, one
// regular expression per line. Matching is first-match-wins over the
// original line order, so broader patterns can be shadowed by earlier,
// more specific ones.
type ClassificationList struct {
	patterns []*regexp.Regexp
}

// LoadClassificationList reads patterns from a plain text file. Blank
// lines and lines starting with "#" are skipped.
func LoadClassificationList(path string) (*ClassificationList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list, err := ReadClassificationList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, err.Error())
	}

	return list, nil
}

// ReadClassificationList parses patterns from a reader.
func ReadClassificationList(r io.Reader) (*ClassificationList, error) {
	list := &ClassificationList{}

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") == true {
			continue
		}

		pattern, err := regexp.Compile(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s", line, err.Error())
		}

		list.patterns = append(list.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// FirstMatch returns the pattern text of the first pattern matching the
// call number, or "" when none matches.
func (l *ClassificationList) FirstMatch(callNumber string) string {
	for _, pattern := range l.patterns {
		if pattern.MatchString(callNumber) == true {
			return pattern.String()
		}
	}

	return ""
}

// Contains reports whether any pattern matches the call number.
func (l *ClassificationList) Contains(callNumber string) bool {
	return l.FirstMatch(callNumber) != ""
}

// Len returns the number of loaded patterns.
func (l *ClassificationList) Len() int {
	return len(l.patterns)
}
