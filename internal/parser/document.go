package parser

// ListType distinguishes ordered from unordered lists
type ListType string

const (
	ListOrdered   ListType = "ordered"
	ListUnordered ListType = "unordered"
)

// Header is one heading element. Position is the index of the header among all
// extracted headers, not a character offset.
type Header struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Table is one table element
type Table struct {
	Rows        [][]string `json:"rows"`
	ColumnCount int        `json:"column_count"`
	RowCount    int        `json:"row_count"`
}

// List is one ordered or unordered list
type List struct {
	Type      ListType `json:"type"`
	Items     []string `json:"items"`
	ItemCount int      `json:"item_count"`
}

// Link is one anchor carrying an href
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// StructuralDocument is the normalized representation every pattern detector reads.
// It is built once per parse and never mutated afterwards.
type StructuralDocument struct {
	// Text is the flattened plain-text rendering, whitespace-collapsed
	Text string `json:"text"`

	Headers []Header `json:"headers"`
	Tables  []Table  `json:"tables"`
	Lists   []List   `json:"lists"`
	Links   []Link   `json:"links"`

	// WordCount and CharCount are measured on the markdown-level content,
	// before HTML flattening
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`

	// ContentHash is the hex SHA-256 of the original input
	ContentHash string `json:"content_hash"`
}

// StructuralElements returns the number of tables, lists and headers
func (d *StructuralDocument) StructuralElements() int {
	return len(d.Tables) + len(d.Lists) + len(d.Headers)
}

// OrderedLists returns the ordered lists of the document
func (d *StructuralDocument) OrderedLists() []List {
	var lists []List
	for _, l := range d.Lists {
		if l.Type == ListOrdered {
			lists = append(lists, l)
		}
	}
	return lists
}
