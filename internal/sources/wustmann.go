package sources

import (
	"fmt"
	"strings"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/marc"
)

// wustmann reworks the binary MARC export of the Wustmann autograph
// collection: ids are renumbered, titles are nested under the
// collection title, and the technical collection id moves from the
// local 912 field into 773 and 980.
type wustmann struct{}

func init() {
	register(&Source{
		SID:         "163",
		Name:        "wustmann",
		Description: "Wustmann autograph collection (MARC to MARC)",
		InputExt:    "mrc",
		OutputExt:   "mrc",
		New:         newWustmannRunner,
	})
}

func newWustmannRunner(cfg Config) (Runner, error) {
	if err := decodeSettings(cfg.Settings, &struct{}{}); err != nil {
		return nil, err
	}

	return &marcRunner{conv: &wustmann{}, format: cfg.OutputFormat, next: marcBinarySources}, nil
}

func (c *wustmann) SID() string {
	return "163"
}

func (c *wustmann) Convert(src extract.FieldSource) (*marc.Record, error) {
	ms, ok := src.(*extract.MARCSource)
	if ok == false {
		return nil, fmt.Errorf("source 163 expects MARC input")
	}

	record := ms.Record()

	id := strings.ReplaceAll(record.ControlValue("001"), "-", "")
	if id == "" {
		return nil, skipf("missing 001")
	}

	record.SetControl("001", "163-"+id)

	title := record.SubFieldValue("245", "a")
	record.RemoveFields("245")
	record.AddData("245", "a", "Autographensammlung Wustmann", "p", title)

	collectionID := record.SubFieldValue("912", "a")
	record.AddData("773", "w", collectionID)

	record.RemoveFields("912")
	record.AddData("980", "a", id, "b", "163", "c", collectionID)

	return record, nil
}
