package extract

// TextExtract is the text found on one page.
type TextExtract struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// TableExtract is one table detected on a page. Index orders tables within
// the page, top to bottom, starting at 0.
type TableExtract struct {
	Page   int        `json:"page"`
	Index  int        `json:"index"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Metadata is an open-ended set of document properties.
type Metadata = map[string]any
