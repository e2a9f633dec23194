package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// Format is the markup of the input content
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat converts a format name into a Format. The empty string means markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported content format: %q (must be markdown or html)", name)
	}
}

// FormatForPath selects the content format from a file extension
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	default:
		return FormatMarkdown
	}
}

// Parser turns markdown or HTML into a StructuralDocument.
// A Parser holds no per-call state and may be shared between goroutines.
type Parser struct {
	markdown goldmark.Markdown
}

// NewParser creates a parser rendering markdown with tables, fenced code and hard line breaks
func NewParser() *Parser {
	return &Parser{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Parse builds the structural document of content. It never fails: malformed
// markup degrades to whatever structure can be recovered.
func (p *Parser) Parse(content string, format Format) *StructuralDocument {
	var markdownContent string
	var tree *html.Node

	if format == FormatHTML {
		tree = parseTree(content)
		markdownContent = htmlToMarkdown(content, tree)
	} else {
		markdownContent = content
		tree = parseTree(p.renderMarkdown(content))
	}

	doc := &StructuralDocument{
		Headers:     []Header{},
		Tables:      []Table{},
		Lists:       []List{},
		Links:       []Link{},
		WordCount:   len(strings.Fields(markdownContent)),
		CharCount:   utf8.RuneCountInString(markdownContent),
		ContentHash: HashContent(content),
	}
	extractStructure(tree, doc)

	return doc
}

// renderMarkdown renders markdown to HTML. On a renderer failure the escaped
// source is returned so extraction still sees the text.
func (p *Parser) renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(content), &buf); err != nil {
		return "<p>" + html.EscapeString(content) + "</p>"
	}
	return buf.String()
}

// parseTree parses HTML into a node tree. An unreadable document yields an empty tree.
func parseTree(source string) *html.Node {
	root, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return &html.Node{Type: html.DocumentNode}
	}
	return root
}

// htmlToMarkdown converts HTML to its markdown rendering, falling back to the
// plain text of the tree when conversion fails.
func htmlToMarkdown(source string, tree *html.Node) string {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	result, err := conv.ConvertString(source)
	if err != nil {
		return nodeText(tree)
	}
	return result
}

// HashContent returns the hex SHA-256 fingerprint of content
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

var defaultParser = NewParser()

// Parse parses content with a shared default parser
func Parse(content string, format Format) *StructuralDocument {
	return defaultParser.Parse(content, format)
}
