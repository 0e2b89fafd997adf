package extract

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// FeedItemSource is one RSS item or Atom entry. Child elements are
// flattened into name -> values; namespaced extension elements are
// addressed as prefix_local (e.g. "geoscan_language"), plain elements by
// their local name ("title", "guid", "link").
type FeedItemSource struct {
	values map[string][]string
	order  []string
}

// First implements FieldSource.
func (s *FeedItemSource) First(spec string) string {
	if vals := s.values[spec]; len(vals) > 0 {
		return vals[0]
	}

	return ""
}

// All implements FieldSource.
func (s *FeedItemSource) All(spec string) []string {
	return s.values[spec]
}

func (s *FeedItemSource) add(name string, value string) {
	if _, seen := s.values[name]; seen == false {
		s.order = append(s.order, name)
	}

	s.values[name] = append(s.values[name], value)
}

// ParseFeed walks an RSS or Atom document and returns one source per
// item/entry. Only element-level structure is interpreted; unknown
// extension elements are preserved under their prefixed names, matching
// how loosely-specified data provider feeds are usually consumed.
func ParseFeed(r io.Reader) ([]*FeedItemSource, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var items []*FeedItemSource
	var current *FeedItemSource

	// element nesting below the current item
	var path []string
	var text bytes.Buffer
	var attrHref string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := strings.ToLower(t.Name.Local)

			if current == nil {
				if local == "item" || local == "entry" {
					current = &FeedItemSource{values: make(map[string][]string)}
				}
				continue
			}

			path = append(path, feedElementName(t.Name))
			text.Reset()

			attrHref = ""
			for _, attr := range t.Attr {
				if strings.ToLower(attr.Name.Local) == "href" {
					attrHref = attr.Value
				}
			}

		case xml.CharData:
			if current != nil && len(path) > 0 {
				text.Write(t)
			}

		case xml.EndElement:
			local := strings.ToLower(t.Name.Local)

			if current != nil && len(path) == 0 && (local == "item" || local == "entry") {
				items = append(items, current)
				current = nil
				continue
			}

			if current == nil || len(path) == 0 {
				continue
			}

			name := path[len(path)-1]
			path = path[:len(path)-1]

			// only leaf elements directly under the item are recorded
			if len(path) == 0 {
				value := strings.TrimSpace(text.String())

				// Atom links carry their target in href
				if value == "" && attrHref != "" {
					value = attrHref
				}

				current.add(name, value)
			}

			text.Reset()
			attrHref = ""
		}
	}

	return items, nil
}

func feedElementName(name xml.Name) string {
	local := strings.ToLower(name.Local)

	space := strings.TrimRight(name.Space, "/#")
	if space == "" {
		return local
	}

	// core feed vocabularies are addressed by bare element name
	switch space {
	case "http://www.w3.org/2005/Atom", "http://purl.org/rss/1.0", "http://purl.org/dc/elements/1.1":
		return local
	}

	// namespace URIs are unwieldy as field names; use the last path
	// component, which for provider extensions is the prefix vocabulary
	// name (e.g. .../geoscan -> geoscan_language)
	if i := strings.LastIndexAny(space, "/#"); i >= 0 {
		space = space[i+1:]
	}

	space = strings.ToLower(space)
	if space == "" {
		return local
	}

	return space + "_" + local
}
