package importer

import (
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link is one file:// bookmark found in an HTML export.
type Link struct {
	Title string
	Path  string // absolute filesystem path
}

// Result holds the file links of a bookmark file and the number of links
// that were not file:// URLs.
type Result struct {
	Links   []Link
	Skipped int
}

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns every
// file:// link in document order. Folder structure is ignored; references
// are derived from the link paths.
func ParseHTMLBookmarks(r io.Reader) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, err
	}

	var res Result

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.ToLower(n.Data) == "a" {
			href := getAttr(n, "href")
			if href == "" {
				return
			}
			p, ok := filePath(href)
			if !ok {
				res.Skipped++
				return
			}
			title := getTextContent(n)
			if title == "" {
				title = filepath.Base(p)
			}
			res.Links = append(res.Links, Link{Title: title, Path: p})
			return // Don't recurse into A
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return res, nil
}

// filePath converts a file:// URL into a filesystem path.
func filePath(href string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || !strings.EqualFold(u.Scheme, "file") || u.Path == "" {
		return "", false
	}
	p := u.Path
	// file:///C:/dir on Windows parses with a leading slash.
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
