package extract

import (
	"github.com/ubleipzig/fincconv/internal/marc"
)

// MARCSource reads fields from a parsed MARC record. Specifiers name a
// control field by tag ("001") or a data field subfield by tag plus
// code ("856u").
type MARCSource struct {
	record *marc.Record
}

func NewMARCSource(r *marc.Record) *MARCSource {
	return &MARCSource{record: r}
}

// Record returns the underlying record.
func (s *MARCSource) Record() *marc.Record {
	return s.record
}

// First implements FieldSource.
func (s *MARCSource) First(spec string) string {
	tag, code := splitMARCSpec(spec)

	if code == "" {
		return s.record.ControlValue(tag)
	}

	return s.record.SubFieldValue(tag, code)
}

// All implements FieldSource.
func (s *MARCSource) All(spec string) []string {
	tag, code := splitMARCSpec(spec)

	if code == "" {
		var values []string

		for _, field := range s.record.Fields {
			if field.Tag == tag && field.ControlField() == true {
				values = append(values, field.Data)
			}
		}

		return values
	}

	return s.record.SubFieldValues(tag, code)
}

func splitMARCSpec(spec string) (tag string, code string) {
	if len(spec) < 4 {
		return spec, ""
	}

	return spec[:3], spec[3:4]
}
