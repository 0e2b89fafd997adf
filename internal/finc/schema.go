package finc

// types for the intermediate schema, the flat JSON exchange format shared
// with the discovery index ingest

const (
	FormatElectronicArticle = "ElectronicArticle"

	GenreArticle = "article"
)

// Author is a single creator entry.
type Author struct {
	Name string `json:"rft.au,omitempty"`
}

// IntermediateSchema is one normalized record in the intermediate schema.
// Field names follow the OpenURL-ish key convention of the index ingest;
// multi-valued fields stay multi-valued even with a single entry.
type IntermediateSchema struct {
	Format         string   `json:"finc.format,omitempty"`
	MegaCollection []string `json:"finc.mega_collection,omitempty"`
	SourceID       string   `json:"finc.source_id,omitempty"`
	RecordID       string   `json:"finc.record_id,omitempty"`

	ArticleTitle string `json:"rft.atitle,omitempty"`
	JournalTitle string `json:"rft.jtitle,omitempty"`
	Genre        string `json:"rft.genre,omitempty"`
	Date         string `json:"rft.date,omitempty"`
	Volume       string `json:"rft.volume,omitempty"`
	Issue        string `json:"rft.issue,omitempty"`
	StartPage    string `json:"rft.spage,omitempty"`
	EndPage      string `json:"rft.epage,omitempty"`
	Pages        string `json:"rft.pages,omitempty"`

	ISSN  []string `json:"rft.issn,omitempty"`
	EISSN []string `json:"rft.eissn,omitempty"`

	DOI       string   `json:"doi,omitempty"`
	URL       []string `json:"url,omitempty"`
	Abstract  string   `json:"abstract,omitempty"`
	Authors   []Author `json:"authors,omitempty"`
	Subjects  []string `json:"x.subjects,omitempty"`
	Languages []string `json:"languages,omitempty"`
}
