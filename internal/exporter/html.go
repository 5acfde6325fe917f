package exporter

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/abm/internal/view"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/asset-bookmarks-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("asset-bookmarks-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// FileURL returns the file:// URL of an absolute filesystem path.
func FileURL(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// ExportHTML exports rows to Netscape bookmark HTML format. Rows are nested
// in H3 folders following the directories of their references. Invalid rows
// are skipped since they have no path to link to.
func ExportHTML(rows []view.Row, title string) string {
	if title == "" {
		title = "Bookmarks"
	}

	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(&b, "<TITLE>%s</TITLE>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<H1>%s</H1>\n", html.EscapeString(title))
	b.WriteString("<DL><p>\n")

	writeItems(&b, buildFolders(rows), 1)

	b.WriteString("</DL><p>\n")

	return b.String()
}

// folder groups rows by the directory part of their reference.
type folder struct {
	name    string
	folders []*folder
	byName  map[string]*folder
	rows    []view.Row
}

func newFolder(name string) *folder {
	return &folder{name: name, byName: make(map[string]*folder)}
}

func (f *folder) child(name string) *folder {
	if c, ok := f.byName[name]; ok {
		return c
	}
	c := newFolder(name)
	f.byName[name] = c
	f.folders = append(f.folders, c)
	return c
}

// buildFolders arranges valid rows into a folder tree, keeping input order.
func buildFolders(rows []view.Row) *folder {
	root := newFolder("")
	for _, r := range rows {
		if !r.Valid || r.Placeholder {
			continue
		}
		f := root
		if dir := path.Dir(string(r.Ref)); dir != "." {
			for _, part := range strings.Split(dir, "/") {
				f = f.child(part)
			}
		}
		f.rows = append(f.rows, r)
	}
	return root
}

// writeItems recursively writes folders and bookmarks of f.
func writeItems(b *strings.Builder, f *folder, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, sub := range f.folders {
		fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(sub.name))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)

		writeItems(b, sub, indent+1)

		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
	}

	for _, r := range f.rows {
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\">%s</A>\n",
			prefix,
			html.EscapeString(FileURL(r.Asset.Path)),
			html.EscapeString(r.Name),
		)
	}
}
