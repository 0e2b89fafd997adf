package vocab

import (
	"log"
	"sync"
)

// FormatCodes are the MARC constants attached to one bibliographic
// format group. Empty slots stay empty in the output record.
type FormatCodes struct {
	Leader string
	F007   string
	F008   string
	F935b  string
	F935c  string
}

// formatGroups is keyed by group name. The code sets follow the house
// cataloging rules for print and electronic material.
var formatGroups = map[string]FormatCodes{
	"Buch": {
		Leader: "     nam  22        4500",
		F007:   "tu",
		F935b:  "druck",
	},
	"Hochschulschrift": {
		Leader: "     nam  22        4500",
		F007:   "tu",
		F935c:  "hs",
	},
	"Artikel": {
		Leader: "     caa  22        4500",
		F007:   "tu",
		F935b:  "SAXB",
		F935c:  "druck",
	},
	"Karte": {
		Leader: "     cem  22        4500",
		F007:   "au",
		F935b:  "druck",
		F935c:  "kart",
	},
	"Software": {
		Leader: "     cgm  22        4500",
		F007:   "co",
		F935b:  "crom",
		F935c:  "lo",
	},
	"Video": {
		Leader: "     cgm  22        4500",
		F007:   "v",
		F935b:  "vika",
	},
	"Webseite": {
		Leader: "     cmi  22        4500",
		F007:   "cr",
		F935b:  "cofz",
		F935c:  "website",
	},
}

var unknownFormats struct {
	mu   sync.Mutex
	seen map[string]int
}

// FormatGroupCodes returns the MARC constants for a format group. An
// unknown group degrades to all-blank codes with a warning, so a bad
// value never stops a run.
func FormatGroupCodes(group string) FormatCodes {
	codes, ok := formatGroups[group]

	if ok == false {
		unknownFormats.mu.Lock()
		if unknownFormats.seen == nil {
			unknownFormats.seen = make(map[string]int)
		}
		unknownFormats.seen[group]++
		first := unknownFormats.seen[group] == 1
		unknownFormats.mu.Unlock()

		if first == true {
			log.Printf("[VOCAB] formats: unknown format group: [%s]", group)
		}
	}

	return codes
}

// KnownFormatGroup reports whether the group has a code set.
func KnownFormatGroup(group string) bool {
	_, ok := formatGroups[group]
	return ok
}
