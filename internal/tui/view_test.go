package tui_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikbrunner/abm/internal/tui/layout"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestView_ListsRows(t *testing.T) {
	f := sampleFixture(t)
	out := f.app(false, nil).View()

	assert.Assert(t, is.Contains(out, "abm"))
	assert.Assert(t, is.Contains(out, filepath.Base(f.root)))
	assert.Assert(t, is.Contains(out, "Name ▲"))
	assert.Assert(t, is.Contains(out, "Textures/"))
	assert.Assert(t, is.Contains(out, "hero.png"))
	assert.Assert(t, is.Contains(out, "open"))
	assert.Assert(t, is.Contains(out, "×"))
	assert.Assert(t, is.Contains(out, "[n:4]"))

	plain := layout.StripANSI(out)
	assert.Assert(t, strings.Index(plain, "Textures/") < strings.Index(plain, "hero.png"))
	assert.Assert(t, strings.Index(plain, "level.scene") < strings.Index(plain, "Zeta.mat"))
}

func TestView_FitsTerminal(t *testing.T) {
	out := sampleFixture(t).app(false, nil).View()

	lines := strings.Split(out, "\n")
	assert.Equal(t, len(lines), 24)
	for i, line := range lines {
		assert.Assert(t, layout.VisibleLength(line) <= 80, "line %d is %d wide", i, layout.VisibleLength(line))
	}
}

func TestView_EmptyStore(t *testing.T) {
	f := newFixture(t, "hero.png")
	out := f.app(false, nil).View()

	assert.Assert(t, is.Contains(out, "(no bookmarks: paste a path or press a)"))
	assert.Assert(t, is.Contains(out, "[n:0]"))
}

func TestView_AllMissing(t *testing.T) {
	f := newFixture(t, "hero.png")
	f.bookmark(t, "hero.png")
	assert.NilError(t, os.Remove(filepath.Join(f.root, "hero.png")))

	out := f.app(false, nil).View()
	assert.Assert(t, is.Contains(out, "all bookmarked assets are missing"))
	assert.Assert(t, is.Contains(out, "[miss:1]"))
}

func TestView_SelectionStatus(t *testing.T) {
	app := sampleFixture(t).app(false, nil)
	app = send(t, app, runes("v"))

	out := app.View()
	assert.Assert(t, is.Contains(out, "[sel:1]"))
	assert.Assert(t, is.Contains(out, "u:undo"))
}
