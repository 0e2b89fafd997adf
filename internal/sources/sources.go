// Package sources holds the per-source record converters, the source
// registry, and the streaming runner that moves records from an input
// file to an output file one at a time.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/finc"
	"github.com/ubleipzig/fincconv/internal/marc"
)

// ErrSkip marks a single record the converter refuses. The runner
// counts the skip and moves on; any other error aborts the run.
var ErrSkip = errors.New("record skipped")

// skipf wraps a reason into a skip error for logging.
func skipf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSkip, fmt.Sprintf(format, args...))
}

// MARCConverter assembles one MARC record from one input record.
type MARCConverter interface {
	SID() string
	Convert(src extract.FieldSource) (*marc.Record, error)
}

// SchemaConverter assembles one intermediate schema document from one
// input record.
type SchemaConverter interface {
	SID() string
	ConvertSchema(ctx context.Context, src extract.FieldSource) (*finc.IntermediateSchema, error)
}

// Runner converts a whole input stream to a whole output stream for one
// source. Implementations process records strictly in input order and
// write each output record only after it assembled completely.
type Runner interface {
	Run(ctx context.Context, in io.Reader, out io.Writer) (*RunStats, error)
}

// Output formats understood by the MARC-producing runners.
const (
	FormatBinary  = "mrc"
	FormatXML     = "xml"
	FormatNDJSON  = "ndj"
	DefaultFormat = FormatBinary
)

// Config carries the per-run options a source's constructor receives.
// Settings is the free-form block from the sources config file.
type Config struct {
	Settings     map[string]interface{}
	OutputFormat string
	FileMap      string
}

// decodeSettings fills a typed settings struct from the free-form
// settings block.
func decodeSettings(settings map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
	})

	if err != nil {
		return err
	}

	if err := decoder.Decode(settings); err != nil {
		return fmt.Errorf("source settings: %s", err.Error())
	}

	return nil
}

// Source is one registry entry. InputExt and OutputExt name the default
// file extensions; OutputExt doubles as the default output format.
type Source struct {
	SID         string
	Name        string
	Description string
	InputExt    string
	OutputExt   string
	New         func(cfg Config) (Runner, error)
}

var registry = make(map[string]*Source)

func register(src *Source) {
	registry[src.SID] = src
	registry[src.Name] = src
}

// Lookup finds a source by SID or by name.
func Lookup(key string) (*Source, bool) {
	src, ok := registry[key]
	return src, ok
}

// All returns the registered sources sorted by SID, each once.
func All() []*Source {
	seen := make(map[string]bool)
	var out []*Source

	for _, src := range registry {
		if seen[src.SID] == false {
			seen[src.SID] = true
			out = append(out, src)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SID < out[j].SID
	})

	return out
}

// RunStats summarizes one conversion run.
type RunStats struct {
	SID     string
	Read    int64
	Skipped int64
	Written int64
	Fixes   map[string]int64
}

func newRunStats(sid string) *RunStats {
	return &RunStats{SID: sid, Fixes: make(map[string]int64)}
}

func (s *RunStats) countFix(name string) {
	s.Fixes[name]++
}

// Log writes the run summary.
func (s *RunStats) Log() {
	log.Printf("[RUN] source %s: read = [%d]  written = [%d]  skipped = [%d]", s.SID, s.Read, s.Written, s.Skipped)

	if len(s.Fixes) > 0 {
		names := make([]string, 0, len(s.Fixes))
		for name := range s.Fixes {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			log.Printf("[RUN] source %s: fix %s = [%d]", s.SID, name, s.Fixes[name])
		}
	}
}
