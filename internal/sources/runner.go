package sources

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/segmentio/encoding/json"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/marc"
)

// recordWriter serializes assembled MARC records in one of the
// supported output formats.
type recordWriter interface {
	Write(r *marc.Record) error
	Close() error
}

type binaryRecordWriter struct {
	w *marc.Writer
}

func (b *binaryRecordWriter) Write(r *marc.Record) error {
	return b.w.Write(r)
}

func (b *binaryRecordWriter) Close() error {
	return nil
}

func newRecordWriter(out io.Writer, format string) (recordWriter, error) {
	switch format {
	case "", FormatBinary:
		return &binaryRecordWriter{w: marc.NewWriter(out)}, nil

	case FormatXML:
		return marc.NewXMLWriter(out), nil
	}

	return nil, fmt.Errorf("unsupported output format: [%s]", format)
}

// marcRunner drives a MARCConverter over a stream of field sources.
// next returns io.EOF when the input is exhausted, a skip error for a
// single malformed record, and any other error for a structural failure
// that aborts the run.
type marcRunner struct {
	conv   MARCConverter
	format string
	next   func(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error)
}

func (m *marcRunner) Run(ctx context.Context, in io.Reader, out io.Writer) (*RunStats, error) {
	stats := newRunStats(m.conv.SID())

	iter, err := m.next(ctx, in)
	if err != nil {
		return stats, err
	}

	writer, err := newRecordWriter(out, m.format)
	if err != nil {
		return stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		src, err := iter()
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

		record, err := m.conv.Convert(src)

		switch {
		case errors.Is(err, ErrSkip) == true:
			stats.Skipped++
			countRecord(stats.SID, "skipped")
			log.Printf("[RUN] source %s: %s", stats.SID, err.Error())
			continue

		case err != nil:
			return stats, err
		}

		record.Clean()

		if err := writer.Write(record); err != nil {
			return stats, err
		}

		stats.Written++
		countRecord(stats.SID, "written")
	}

	if err := writer.Close(); err != nil {
		return stats, err
	}

	return stats, nil
}

// schemaRunner drives a SchemaConverter over a stream of field sources,
// writing one JSON document per line.
type schemaRunner struct {
	conv SchemaConverter
	next func(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error)
}

func (s *schemaRunner) Run(ctx context.Context, in io.Reader, out io.Writer) (*RunStats, error) {
	stats := newRunStats(s.conv.SID())

	iter, err := s.next(ctx, in)
	if err != nil {
		return stats, err
	}

	enc := json.NewEncoder(out)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		src, err := iter()
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

		doc, err := s.conv.ConvertSchema(ctx, src)

		switch {
		case errors.Is(err, ErrSkip) == true:
			stats.Skipped++
			countRecord(stats.SID, "skipped")
			log.Printf("[RUN] source %s: %s", stats.SID, err.Error())
			continue

		case err != nil:
			return stats, err
		}

		if err := enc.Encode(doc); err != nil {
			return stats, err
		}

		stats.Written++
		countRecord(stats.SID, "written")
	}

	return stats, nil
}

// ndjsonSources yields one JSONSource per input line. Blank lines are
// ignored; a line that does not parse as a JSON object yields a skip
// error, so one mangled line never aborts the batch.
func ndjsonSources(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return func() (extract.FieldSource, error) {
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var doc map[string]interface{}

			if err := json.Unmarshal(line, &doc); err != nil {
				return nil, skipf("malformed json line: %s", err.Error())
			}

			return extract.NewJSONSource(doc), nil
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}

		return nil, io.EOF
	}, nil
}

// ndjsonDocuments yields one raw document per input line, for the
// fixers that rewrite documents in place. Error semantics match
// ndjsonSources.
func ndjsonDocuments(in io.Reader) func() (map[string]interface{}, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return func() (map[string]interface{}, error) {
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var doc map[string]interface{}

			if err := json.Unmarshal(line, &doc); err != nil {
				return nil, skipf("malformed json line: %s", err.Error())
			}

			return doc, nil
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}

		return nil, io.EOF
	}
}

// marcXMLSources parses a whole MARC XML collection up front and yields
// one source per record.
func marcXMLSources(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	records, err := marc.ParseXMLCollection(data)
	if err != nil {
		return nil, err
	}

	i := 0

	return func() (extract.FieldSource, error) {
		if i >= len(records) {
			return nil, io.EOF
		}

		src := extract.NewMARCSource(records[i])
		i++

		return src, nil
	}, nil
}

// marcBinarySources yields one source per binary MARC record. The
// stream cannot resync after a bad record: a damaged tail behind valid
// records becomes one counted skip, a stream whose first record never
// parses is a structural failure.
func marcBinarySources(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error) {
	reader := marc.NewReader(in)
	sound := 0
	done := false

	return func() (extract.FieldSource, error) {
		if done == true {
			return nil, io.EOF
		}

		if reader.Next() == false {
			err := reader.Err()
			if err == nil {
				return nil, io.EOF
			}

			done = true

			if sound == 0 {
				return nil, err
			}

			return nil, skipf("unreadable trailing record: %s", err.Error())
		}

		sound++

		return extract.NewMARCSource(reader.Record()), nil
	}, nil
}

// feedSources parses an RSS or Atom feed up front and yields one source
// per item.
func feedSources(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error) {
	items, err := extract.ParseFeed(in)
	if err != nil {
		return nil, err
	}

	i := 0

	return func() (extract.FieldSource, error) {
		if i >= len(items) {
			return nil, io.EOF
		}

		src := items[i]
		i++

		return src, nil
	}, nil
}

// jsonArraySources decodes a top-level JSON array of objects and yields
// one source per element.
func jsonArraySources(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	var docs []map[string]interface{}

	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("input is not a JSON array of objects: %s", err.Error())
	}

	i := 0

	return func() (extract.FieldSource, error) {
		if i >= len(docs) {
			return nil, io.EOF
		}

		src := extract.NewJSONSource(docs[i])
		i++

		return src, nil
	}, nil
}

// lineSources yields one line-XML source per input line, for providers
// that deliver one flattened XML record per line. Blank lines are
// passed through; the converter decides what to do with them.
func lineSources(ctx context.Context, in io.Reader) (func() (extract.FieldSource, error), error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return func() (extract.FieldSource, error) {
		if scanner.Scan() == false {
			if err := scanner.Err(); err != nil {
				return nil, err
			}

			return nil, io.EOF
		}

		return extract.NewLineXMLSource(scanner.Text()), nil
	}, nil
}
