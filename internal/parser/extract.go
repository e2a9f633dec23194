package parser

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractStructure walks the tree once in document order and fills doc
func extractStructure(root *html.Node, doc *StructuralDocument) {
	var words []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words = append(words, strings.Fields(n.Data)...)
			return
		case html.ElementNode:
			if isSkipped(n) {
				return
			}
			switch n.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				doc.Headers = append(doc.Headers, Header{
					Level:    int(n.Data[1] - '0'),
					Text:     nodeText(n),
					Position: len(doc.Headers),
				})
			case atom.Table:
				doc.Tables = append(doc.Tables, extractTable(n))
			case atom.Ul, atom.Ol:
				if list, ok := extractList(n); ok {
					doc.Lists = append(doc.Lists, list)
				}
			case atom.A:
				if href, ok := attr(n, "href"); ok {
					doc.Links = append(doc.Links, Link{Text: nodeText(n), URL: href})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.Text = strings.Join(words, " ")
}

// extractTable collects every row of a table. Rows without cells are dropped.
func extractTable(n *html.Node) Table {
	t := Table{Rows: [][]string{}}
	for _, tr := range findAll(n, atom.Tr) {
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
				cells = append(cells, nodeText(c))
			}
		}
		if len(cells) == 0 {
			continue
		}
		t.Rows = append(t.Rows, cells)
		if len(cells) > t.ColumnCount {
			t.ColumnCount = len(cells)
		}
	}
	t.RowCount = len(t.Rows)
	return t
}

// extractList collects the items of a list. A list without items is not reported.
func extractList(n *html.Node) (List, bool) {
	items := findAll(n, atom.Li)
	if len(items) == 0 {
		return List{}, false
	}

	l := List{Type: ListUnordered, Items: make([]string, 0, len(items))}
	if n.DataAtom == atom.Ol {
		l.Type = ListOrdered
	}
	for _, li := range items {
		l.Items = append(l.Items, nodeText(li))
	}
	l.ItemCount = len(l.Items)
	return l, true
}

// findAll returns the descendants of n with the given tag, in document order
func findAll(n *html.Node, tag atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == tag {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

// nodeText returns the whitespace-collapsed text of a subtree
func nodeText(n *html.Node) string {
	var words []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			words = append(words, strings.Fields(node.Data)...)
			return
		}
		if isSkipped(node) {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(words, " ")
}

// isSkipped reports elements whose text is not document prose
func isSkipped(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
