package tui

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// splitPastedPaths extracts file paths from pasted text. Terminals paste
// dropped files one per line or space separated with shell escaping, and
// some paste file:// URLs. A line that names an existing path as a whole is
// kept intact even if it contains spaces.
func splitPastedPaths(text string, exists func(string) bool) []string {
	var paths []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if exists != nil && exists(line) {
			paths = append(paths, line)
			continue
		}
		for _, word := range splitShellWords(line) {
			paths = append(paths, fromFileURL(word))
		}
	}
	return paths
}

// splitShellWords splits on unquoted, unescaped spaces and removes the
// quoting.
func splitShellWords(s string) []string {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	flush := func() {
		if inWord {
			words = append(words, cur.String())
			cur.Reset()
			inWord = false
		}
	}

	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	flush()
	return words
}

// fromFileURL converts file:// URLs to paths and returns anything else as is.
func fromFileURL(s string) string {
	if !strings.HasPrefix(strings.ToLower(s), "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return s
	}
	return filepath.FromSlash(u.Path)
}

// resolvePath makes p absolute; relative paths are taken from the project root.
func (a App) resolvePath(p string) string {
	if filepath.IsAbs(p) || a.registry == nil {
		return p
	}
	return filepath.Join(a.registry.Root(), p)
}

func (a App) pathExists(p string) bool {
	_, err := os.Stat(a.resolvePath(fromFileURL(p)))
	return err == nil
}

// addPaths bookmarks every path that resolves to an asset in the project.
func (a *App) addPaths(paths []string) {
	if len(paths) == 0 {
		return
	}
	if a.registry == nil {
		a.setMessage("No project to add to", MessageError)
		return
	}

	var added, existing, rejected int
	lastID := -1
	for _, p := range paths {
		as, err := a.registry.Lookup(a.resolvePath(p))
		if err != nil {
			log.Printf("add %s: %v", p, err)
			rejected++
			continue
		}
		entry, ok, err := a.store.Add(as.Ref)
		if err != nil {
			a.setMessage(err.Error(), MessageError)
			return
		}
		if ok {
			added++
		} else {
			existing++
		}
		lastID = entry.ID
	}

	if lastID >= 0 {
		a.moveCursorTo(lastID)
	}
	text, t := summarizeAdd(added, existing, rejected)
	a.setMessage(text, t)
}

func (a *App) moveCursorTo(id int) {
	for i, r := range a.view.Visible() {
		if r.ID == id {
			a.cursor = i
			return
		}
	}
}

func summarizeAdd(added, existing, rejected int) (string, MessageType) {
	var parts []string
	if added > 0 {
		parts = append(parts, "added "+plural(added, "bookmark"))
	}
	if existing > 0 {
		parts = append(parts, fmt.Sprintf("%d already bookmarked", existing))
	}
	if rejected > 0 {
		parts = append(parts, fmt.Sprintf("skipped %d outside the project or missing", rejected))
	}
	if len(parts) == 0 {
		return "Nothing to add", MessageInfo
	}

	text := strings.Join(parts, ", ")
	text = strings.ToUpper(text[:1]) + text[1:]
	switch {
	case rejected > 0:
		return text, MessageWarning
	case added > 0:
		return text, MessageSuccess
	default:
		return text, MessageInfo
	}
}
