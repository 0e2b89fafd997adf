package marc

import (
	"fmt"
	"io"
	"strings"
)

// MARC 21 structural bytes.
const (
	fieldTerminator    = 0x1e
	subFieldDelimiter  = 0x1f
	recordTerminator   = 0x1d
	directoryEntrySize = 12
	maxRecordLength    = 99999
)

// Writer streams binary MARC records to an underlying writer, one
// self-delimiting record at a time. No buffering beyond the current
// record; a crash leaves every previously written record intact.
type Writer struct {
	w io.Writer
}

// NewWriter returns a binary MARC writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write serializes one record. The leader's record length and base
// address slots are recomputed; the rest of the leader is taken as-is.
// Records exceeding the 5-digit length field are a hard error, never
// silently re-widened.
func (w *Writer) Write(r *Record) error {
	var dir strings.Builder
	var body strings.Builder

	for _, f := range r.Fields {
		var data string

		if f.ControlField() {
			data = f.Data + string(rune(fieldTerminator))
		} else {
			var b strings.Builder

			b.WriteString(f.Ind1)
			b.WriteString(f.Ind2)

			for _, sf := range f.SubFields {
				b.WriteByte(subFieldDelimiter)
				b.WriteString(sf.Code)
				b.WriteString(sf.Value)
			}

			b.WriteByte(fieldTerminator)
			data = b.String()
		}

		fmt.Fprintf(&dir, "%s%04d%05d", f.Tag, len(data), body.Len())
		body.WriteString(data)
	}

	baseAddress := LeaderLength + dir.Len() + 1
	recordLength := baseAddress + body.Len() + 1

	if recordLength > maxRecordLength {
		return fmt.Errorf("record length %d exceeds format maximum", recordLength)
	}

	leader := []byte(r.Leader())
	copy(leader[0:5], fmt.Sprintf("%05d", recordLength))
	copy(leader[12:17], fmt.Sprintf("%05d", baseAddress))

	var out strings.Builder
	out.Write(leader)
	out.WriteString(dir.String())
	out.WriteByte(fieldTerminator)
	out.WriteString(body.String())
	out.WriteByte(recordTerminator)

	_, err := io.WriteString(w.w, out.String())
	return err
}

// Reader enumerates records from a binary MARC stream. A cleanly
// truncated stream (mid-record) yields every complete record followed by
// a final error from Err.
type Reader struct {
	r       io.Reader
	current *Record
	err     error
}

// NewReader returns a binary MARC reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next advances to the next record, returning false at end of stream or
// on error. After false, Err distinguishes the two.
func (r *Reader) Next() bool {
	first5 := make([]byte, 5)

	if _, err := io.ReadFull(r.r, first5); err != nil {
		if err != io.EOF {
			r.err = fmt.Errorf("reading record length: %w", err)
		}
		return false
	}

	var recordLength int
	if _, err := fmt.Sscanf(string(first5), "%05d", &recordLength); err != nil {
		r.err = fmt.Errorf("invalid record length: %q", string(first5))
		return false
	}

	if recordLength < LeaderLength+2 {
		r.err = fmt.Errorf("nonsensical record length: %d", recordLength)
		return false
	}

	data := make([]byte, recordLength)
	copy(data, first5)

	if _, err := io.ReadFull(r.r, data[5:]); err != nil {
		r.err = fmt.Errorf("truncated record: %w", err)
		return false
	}

	r.current, r.err = parseRecord(data)
	return r.err == nil
}

// Record returns the record read by the last successful Next.
func (r *Reader) Record() *Record {
	return r.current
}

// Err returns the first error encountered, nil after a clean EOF.
func (r *Reader) Err() error {
	return r.err
}

func parseRecord(data []byte) (*Record, error) {
	rec := NewRecord()
	rec.SetLeader(string(data[0:LeaderLength]))

	var baseAddress int
	if _, err := fmt.Sscanf(string(data[12:17]), "%05d", &baseAddress); err != nil {
		return nil, fmt.Errorf("invalid base address: %w", err)
	}

	if baseAddress <= LeaderLength || baseAddress >= len(data) {
		return nil, fmt.Errorf("base address %d out of range", baseAddress)
	}

	directory := data[LeaderLength : baseAddress-1]
	if len(directory)%directoryEntrySize != 0 {
		return nil, fmt.Errorf("directory length %d not a multiple of %d", len(directory), directoryEntrySize)
	}

	for o := 0; o < len(directory); o += directoryEntrySize {
		entry := directory[o : o+directoryEntrySize]
		tag := string(entry[0:3])

		var entryLength, entryOffset int
		fmt.Sscanf(string(entry[3:7]), "%04d", &entryLength)
		fmt.Sscanf(string(entry[7:12]), "%05d", &entryOffset)

		start := baseAddress + entryOffset
		end := start + entryLength - 1

		if start >= len(data) || end > len(data) || end < start {
			return nil, fmt.Errorf("field %s extends past record end", tag)
		}

		payload := string(data[start:end])

		if tag < "010" {
			rec.AddControl(tag, payload)
			continue
		}

		f := Field{Tag: tag, Ind1: " ", Ind2: " "}

		parts := strings.Split(payload, string(rune(subFieldDelimiter)))

		switch len(parts[0]) {
		case 0:
		case 1:
			f.Ind1 = parts[0]
		default:
			f.Ind1 = parts[0][0:1]
			f.Ind2 = parts[0][1:2]
		}

		for _, part := range parts[1:] {
			if part == "" {
				continue
			}
			f.SubFields = append(f.SubFields, SubField{Code: part[0:1], Value: part[1:]})
		}

		rec.Fields = append(rec.Fields, f)
	}

	return rec, nil
}
