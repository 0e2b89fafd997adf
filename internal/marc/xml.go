package marc

import (
	"encoding/xml"
	"fmt"
	"io"
)

type xmlSubField struct {
	XMLName xml.Name `xml:"subfield"`
	Code    string   `xml:"code,attr"`
	Value   string   `xml:",chardata"`
}

type xmlControlField struct {
	XMLName xml.Name `xml:"controlfield"`
	Tag     string   `xml:"tag,attr"`
	Value   string   `xml:",chardata"`
}

type xmlDataField struct {
	XMLName   xml.Name      `xml:"datafield"`
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	SubFields []xmlSubField `xml:"subfield"`
}

type xmlRecord struct {
	XMLName       xml.Name          `xml:"record"`
	Leader        string            `xml:"leader"`
	ControlFields []xmlControlField `xml:"controlfield"`
	DataFields    []xmlDataField    `xml:"datafield"`
}

type xmlCollection struct {
	XMLName xml.Name    `xml:"collection"`
	Xmlns   string      `xml:"xmlns,attr"`
	Records []xmlRecord `xml:"record"`
}

const marcXMLNamespace = "http://www.loc.gov/MARC21/slim"

// XMLWriter streams records as a MARCXML collection. Close must be
// called to emit the closing collection element.
type XMLWriter struct {
	w      io.Writer
	opened bool
}

// NewXMLWriter returns a MARCXML writer on w.
func NewXMLWriter(w io.Writer) *XMLWriter {
	return &XMLWriter{w: w}
}

// Write appends one record to the collection.
func (x *XMLWriter) Write(r *Record) error {
	if x.opened == false {
		if _, err := fmt.Fprintf(x.w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<collection xmlns=\"%s\">\n", marcXMLNamespace); err != nil {
			return err
		}
		x.opened = true
	}

	rec := xmlRecord{Leader: r.Leader()}

	for _, f := range r.Fields {
		if f.ControlField() {
			rec.ControlFields = append(rec.ControlFields, xmlControlField{Tag: f.Tag, Value: f.Data})
			continue
		}

		df := xmlDataField{Tag: f.Tag, Ind1: f.Ind1, Ind2: f.Ind2}
		for _, sf := range f.SubFields {
			df.SubFields = append(df.SubFields, xmlSubField{Code: sf.Code, Value: sf.Value})
		}

		rec.DataFields = append(rec.DataFields, df)
	}

	enc, err := xml.MarshalIndent(rec, "  ", "  ")
	if err != nil {
		return err
	}

	if _, err := x.w.Write(append(enc, '\n')); err != nil {
		return err
	}

	return nil
}

// Close terminates the collection element. Writing after Close is an
// error on the part of the caller.
func (x *XMLWriter) Close() error {
	if x.opened == false {
		// empty input still yields a well-formed document
		if _, err := fmt.Fprintf(x.w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<collection xmlns=\"%s\">\n", marcXMLNamespace); err != nil {
			return err
		}
	}

	_, err := io.WriteString(x.w, "</collection>\n")
	return err
}

// ParseXMLCollection decodes a complete MARCXML collection document.
// Used by converters whose input is harvested MARCXML.
func ParseXMLCollection(data []byte) ([]*Record, error) {
	var coll xmlCollection

	if err := xml.Unmarshal(data, &coll); err != nil {
		return nil, err
	}

	var records []*Record

	for _, xr := range coll.Records {
		r := NewRecord()
		r.SetLeader(xr.Leader)

		for _, cf := range xr.ControlFields {
			r.AddControl(cf.Tag, cf.Value)
		}

		for _, df := range xr.DataFields {
			f := Field{Tag: df.Tag, Ind1: df.Ind1, Ind2: df.Ind2}
			if f.Ind1 == "" {
				f.Ind1 = " "
			}
			if f.Ind2 == "" {
				f.Ind2 = " "
			}

			for _, sf := range df.SubFields {
				f.SubFields = append(f.SubFields, SubField{Code: sf.Code, Value: sf.Value})
			}

			r.Fields = append(r.Fields, f)
		}

		records = append(records, r)
	}

	return records, nil
}

// ParseXMLRecord decodes a single MARCXML record fragment.
func ParseXMLRecord(data []byte) (*Record, error) {
	records, err := ParseXMLCollection([]byte("<collection>" + string(data) + "</collection>"))
	if err != nil {
		return nil, err
	}

	if len(records) != 1 {
		return nil, fmt.Errorf("expected one record, got %d", len(records))
	}

	return records[0], nil
}
