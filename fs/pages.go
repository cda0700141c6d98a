// Package fs keeps the committed index directory on the local filesystem.
package fs

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docrag"
	"gopkg.in/yaml.v3"
)

// PagesDir is the markdown snapshot directory inside an index directory.
const PagesDir = "pages"

// URLToPath converts a page URL to a slash-separated relative path of the
// form host/path.md. A trailing slash maps to index.md. Paths that would
// escape the snapshot directory are rejected.
//
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" || strings.ContainsAny(u.Host, `/\`) || u.Host == ".." || u.Host == "." {
		return "", fmt.Errorf("invalid host in %q", rawURL)
	}

	p := u.Path
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path traversal in %q", rawURL)
		}
	}

	switch {
	case p == "" || p == "/":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p = strings.TrimPrefix(p, "/") + "index.md"
	default:
		p = strings.TrimPrefix(p, "/") + ".md"
	}
	return path.Join(u.Host, path.Clean(p)), nil
}

// frontMatter is the YAML header of a snapshot page.
type frontMatter struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title,omitempty"`
	Crawled string `yaml:"crawled"`
	Hash    string `yaml:"hash,omitempty"`
}

// FormatDocument renders doc as markdown with YAML front matter.
func FormatDocument(doc *docrag.Document) (string, error) {
	header, err := yaml.Marshal(frontMatter{
		Source:  doc.SourceURL,
		Title:   doc.Title,
		Crawled: doc.FetchedAt.Format("2006-01-02"),
		Hash:    doc.ContentHash,
	})
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// writePages writes a snapshot of docs under dir/pages.
func writePages(dir string, docs []*docrag.Document) error {
	root := filepath.Join(dir, PagesDir)
	for _, doc := range docs {
		rel, err := URLToPath(doc.SourceURL)
		if err != nil {
			return docrag.Errorf(docrag.EINVALID, "snapshot %s: %w", doc.SourceURL, err)
		}
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		content, err := FormatDocument(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
