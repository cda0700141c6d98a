package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docrag"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docrag.Extractor at compile time.
var _ docrag.Extractor = (*Extractor)(nil)

// Extractor serializes the main content of a page by an ordered policy of
// CSS selectors.
type Extractor struct {
	// Policy defaults to DefaultPolicy when nil.
	Policy []Rule

	// Converter renders tables. Without one, table rows are pipe-joined.
	Converter docrag.Converter
}

// NewExtractor creates an Extractor with the default policy.
func NewExtractor(conv docrag.Converter) *Extractor {
	return &Extractor{Policy: DefaultPolicy, Converter: conv}
}

// Extract selects the first content container the policy matches, falling
// back to body, removes excluded elements and serializes the rest.
func (e *Extractor) Extract(rawHTML string) (*docrag.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docrag.Errorf(docrag.EINVALID, "failed to parse HTML: %v", err)
	}

	title := extractTitle(doc)

	policy := e.Policy
	if policy == nil {
		policy = DefaultPolicy
	}

	container := selectContainer(doc, policy)
	for _, r := range policy {
		if r.Role == RoleExclude {
			container.Find(r.Selector).Remove()
		}
	}

	w := &blockWriter{conv: e.Converter}
	w.walk(container)
	w.flush()

	text := strings.Join(w.blocks, "\n\n")
	if strings.TrimSpace(text) == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "no content")
	}

	return &docrag.ExtractResult{Title: title, Text: text}, nil
}

func selectContainer(doc *goquery.Document, policy []Rule) *goquery.Selection {
	for _, r := range policy {
		if r.Role != RoleContent {
			continue
		}
		if sel := doc.Find(r.Selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Find("body").First()
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if t := collapse(og); t != "" {
			return t
		}
	}
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapse(doc.Find("h1").First().Text())
}

var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "br": true, "cite": true,
	"code": true, "data": true, "del": true, "dfn": true, "em": true,
	"i": true, "img": true, "ins": true, "kbd": true, "mark": true, "q": true,
	"s": true, "samp": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "time": true, "u": true, "var": true,
}

// blockWriter accumulates serialized blocks in document order. Loose
// inline text between blocks is buffered and emitted as a paragraph.
type blockWriter struct {
	conv   docrag.Converter
	blocks []string
	inline strings.Builder
}

func (w *blockWriter) add(block string) {
	if block != "" {
		w.blocks = append(w.blocks, block)
	}
}

func (w *blockWriter) flush() {
	w.add(collapse(w.inline.String()))
	w.inline.Reset()
}

func (w *blockWriter) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		w.node(child)
	})
}

func (w *blockWriter) node(child *goquery.Selection) {
	node := child.Get(0)
	switch node.Type {
	case html.TextNode:
		w.inline.WriteString(node.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	name := goquery.NodeName(child)
	if inlineElements[name] {
		w.inline.WriteString(inlineText(node))
		return
	}

	w.flush()
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if text := collapse(inlineText(node)); text != "" {
			w.add(strings.Repeat("#", int(name[1]-'0')) + " " + text)
		}
	case "p":
		w.add(collapse(inlineText(node)))
	case "li":
		w.listItem(child)
	case "pre":
		w.add(fence(child))
	case "table":
		w.add(w.table(child))
	default:
		w.walk(child)
		w.flush()
	}
}

// listBlocks are the children of a list item that keep their own block
// instead of joining the bullet text.
const listBlocks = "pre, table, ul, ol"

// listItem emits the item's text as a bullet. Code blocks, tables and
// nested lists inside the item break out as blocks of their own, in order.
func (w *blockWriter) listItem(li *goquery.Selection) {
	var own strings.Builder
	emit := func() {
		if text := collapse(own.String()); text != "" {
			w.add("- " + text)
		}
		own.Reset()
	}

	var visit func(sel *goquery.Selection)
	visit = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, child *goquery.Selection) {
			switch {
			case child.Is(listBlocks):
				emit()
				w.node(child)
				w.flush()
			case child.Get(0).Type == html.ElementNode && child.Find(listBlocks).Length() > 0:
				visit(child)
			default:
				own.WriteString(inlineText(child.Get(0)))
			}
		})
	}
	visit(li)
	emit()
}

// inlineText returns the text under n. A line break becomes a newline and
// block elements are padded with spaces so adjacent words stay apart.
// Inline elements add nothing, so markup inside a word keeps it whole.
func inlineText(n *html.Node) string {
	var b strings.Builder
	writeInline(&b, n)
	return b.String()
}

func writeInline(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
		block := !inlineElements[n.Data]
		if block {
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeInline(b, c)
		}
		if block {
			b.WriteString(" ")
		}
	}
}

func fence(pre *goquery.Selection) string {
	code := strings.TrimRight(pre.Text(), "\n")
	if strings.TrimSpace(code) == "" {
		return ""
	}
	return "```" + codeLanguage(pre) + "\n" + code + "\n```"
}

// codeLanguage reads a language-* or lang-* class from the pre element or
// its code child.
func codeLanguage(pre *goquery.Selection) string {
	for _, s := range []*goquery.Selection{pre, pre.ChildrenFiltered("code").First()} {
		class, _ := s.Attr("class")
		for _, c := range strings.Fields(class) {
			for _, prefix := range []string{"language-", "lang-"} {
				if lang, ok := strings.CutPrefix(c, prefix); ok {
					return lang
				}
			}
		}
	}
	return ""
}

func (w *blockWriter) table(tbl *goquery.Selection) string {
	if w.conv != nil {
		if outer, err := goquery.OuterHtml(tbl); err == nil {
			if md, err := w.conv.Convert(outer); err == nil && strings.TrimSpace(md) != "" {
				return md
			}
		}
	}

	var rows []string
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, collapse(inlineText(cell.Get(0))))
		})
		if len(cells) > 0 {
			rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		}
	})
	return strings.Join(rows, "\n")
}

// collapse replaces every run of whitespace with a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
