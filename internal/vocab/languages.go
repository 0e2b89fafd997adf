package vocab

// languageNames maps provider language labels to MARC language codes.
var languageNames = map[string]string{
	"English": "eng",
	"French":  "fre",
	"German":  "ger",
	"english": "eng",
	"french":  "fre",
	"german":  "ger",
	"en":      "eng",
	"fr":      "fre",
	"de":      "ger",
	"eng":     "eng",
	"fre":     "fre",
	"ger":     "ger",
}

// Languages is the shared language table. The default for unknown
// labels is up to each converter.
var Languages = NewMappingTable("languages", languageNames)
