// Package marc implements a minimal MARC 21 record model with binary and
// XML serialization, sized to what the per-source converters need.
package marc

import (
	"strings"
)

// LeaderLength is the fixed width of a record leader.
const LeaderLength = 24

// blankLeader is used when a converter never sets one.
const blankLeader = "                        "

// SubField is a single code/value pair inside a data field.
type SubField struct {
	Code  string
	Value string
}

// Field is one control field (tag < "010", Data set) or one data field
// (indicators + subfields). Tags are 3-character strings.
type Field struct {
	Tag       string
	Ind1      string
	Ind2      string
	Data      string
	SubFields []SubField
}

// ControlField reports whether the tag denotes a control field.
func (f *Field) ControlField() bool {
	return f.Tag < "010"
}

// SubFieldValue returns the first value for the given code, or "".
func (f *Field) SubFieldValue(code string) string {
	for _, sf := range f.SubFields {
		if sf.Code == code {
			return sf.Value
		}
	}

	return ""
}

// Record is an ordered list of fields plus a leader. Converters build
// records top to bottom; field order is preserved through serialization.
type Record struct {
	leader string
	Fields []Field
}

// NewRecord creates an empty record with a blank leader.
func NewRecord() *Record {
	return &Record{leader: blankLeader}
}

// Leader returns the current leader, always exactly 24 characters.
func (r *Record) Leader() string {
	return r.leader
}

// SetLeader stores the leader at its fixed width; longer values are
// truncated, shorter values padded with spaces.
func (r *Record) SetLeader(leader string) {
	if len(leader) > LeaderLength {
		leader = leader[:LeaderLength]
	}

	if len(leader) < LeaderLength {
		leader = leader + strings.Repeat(" ", LeaderLength-len(leader))
	}

	r.leader = leader
}

// BlankLeaderStatus clears leader bytes 0-4 (the record length slot),
// which is recomputed on binary serialization anyway.
func (r *Record) BlankLeaderStatus() {
	r.SetLeader("     " + r.leader[5:])
}

// AddControl appends a control field.
func (r *Record) AddControl(tag string, data string) {
	r.Fields = append(r.Fields, Field{Tag: tag, Data: data})
}

// AddData appends a data field with blank indicators. Subfields are given
// as code/value pairs; a trailing unpaired code is ignored.
func (r *Record) AddData(tag string, pairs ...string) {
	f := Field{Tag: tag, Ind1: " ", Ind2: " "}

	for i := 0; i+1 < len(pairs); i += 2 {
		f.SubFields = append(f.SubFields, SubField{Code: pairs[i], Value: pairs[i+1]})
	}

	r.Fields = append(r.Fields, f)
}

// SetControl replaces the first control field with the tag, dropping any
// further occurrences. Without an existing occurrence the field is
// inserted at the front, where control fields conventionally sit.
func (r *Record) SetControl(tag string, data string) {
	replaced := false
	kept := r.Fields[:0]

	for _, f := range r.Fields {
		if f.Tag == tag {
			if replaced == true {
				continue
			}

			f.Data = data
			f.SubFields = nil
			replaced = true
		}

		kept = append(kept, f)
	}

	r.Fields = kept

	if replaced == false {
		r.Fields = append([]Field{{Tag: tag, Data: data}}, r.Fields...)
	}
}

// AddField appends a fully specified field, for callers that need
// non-blank indicators.
func (r *Record) AddField(f Field) {
	r.Fields = append(r.Fields, f)
}

// ControlValue returns the data of the first control field with the tag.
func (r *Record) ControlValue(tag string) string {
	for i := range r.Fields {
		if r.Fields[i].Tag == tag {
			return r.Fields[i].Data
		}
	}

	return ""
}

// SubFieldValue returns the first matching subfield value for tag/code.
func (r *Record) SubFieldValue(tag string, code string) string {
	for i := range r.Fields {
		if r.Fields[i].Tag == tag {
			if val := r.Fields[i].SubFieldValue(code); val != "" {
				return val
			}
		}
	}

	return ""
}

// SubFieldValues returns all matching subfield values in document order.
func (r *Record) SubFieldValues(tag string, code string) []string {
	var values []string

	for i := range r.Fields {
		if r.Fields[i].Tag != tag {
			continue
		}

		for _, sf := range r.Fields[i].SubFields {
			if sf.Code == code {
				values = append(values, sf.Value)
			}
		}
	}

	return values
}

// RemoveFields drops every field with the given tag, keeping order of the
// remaining fields.
func (r *Record) RemoveFields(tag string) {
	kept := r.Fields[:0]

	for _, f := range r.Fields {
		if f.Tag != tag {
			kept = append(kept, f)
		}
	}

	r.Fields = kept
}

// Clean drops empty subfields, and data fields left without subfields,
// so sparse converter output stays tidy. Control fields with empty data
// are dropped as well.
func (r *Record) Clean() {
	kept := r.Fields[:0]

	for _, f := range r.Fields {
		if f.ControlField() {
			if f.Data != "" {
				kept = append(kept, f)
			}
			continue
		}

		subs := f.SubFields[:0]
		for _, sf := range f.SubFields {
			if sf.Value != "" {
				subs = append(subs, sf)
			}
		}
		f.SubFields = subs

		if len(f.SubFields) > 0 {
			kept = append(kept, f)
		}
	}

	r.Fields = kept
}
