package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikbrunner/abm/internal/asset"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type recordingHost struct {
	located []string
	opened  []string
}

func (h *recordingHost) Locate(a asset.Asset) error {
	h.located = append(h.located, string(a.Ref))
	return nil
}

func (h *recordingHost) Open(a asset.Asset) error {
	h.opened = append(h.opened, string(a.Ref))
	return nil
}

type testProject struct {
	root   string
	config string
	host   *recordingHost
}

func newTestProject(t *testing.T) *testProject {
	t.Helper()
	root := t.TempDir()
	assert.NilError(t, os.MkdirAll(filepath.Join(root, "Textures"), 0755))
	for _, f := range []string{"hero.png", "level.scene", "Textures/wall.png"} {
		assert.NilError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(f)), []byte("x"), 0644))
	}
	return &testProject{
		root:   root,
		config: filepath.Join(t.TempDir(), "config.json"),
		host:   &recordingHost{},
	}
}

func (p *testProject) path(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

func (p *testProject) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&cli{host: p.host})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--project", p.root, "--config", p.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (p *testProject) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := p.run(t, "", args...)
	assert.NilError(t, err, out)
	return out
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd(&cli{})

	project, err := cmd.PersistentFlags().GetString("project")
	assert.NilError(t, err)
	assert.Equal(t, project, ".")

	config, err := cmd.PersistentFlags().GetString("config")
	assert.NilError(t, err)
	assert.Equal(t, config, "")

	logPath, err := cmd.Flags().GetString("log")
	assert.NilError(t, err)
	assert.Equal(t, logPath, "")
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd(&cli{})
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"add", "remove", "list", "check", "prune", "open", "import", "export", "refs"} {
		assert.Assert(t, is.Contains(names, want))
	}
}

func TestAddAndRefs(t *testing.T) {
	p := newTestProject(t)

	out := p.mustRun(t, "add", p.path("hero.png"), p.path("Textures"))
	assert.Assert(t, is.Contains(out, "Added hero.png"))
	assert.Assert(t, is.Contains(out, "Added Textures"))

	out = p.mustRun(t, "add", p.path("hero.png"))
	assert.Assert(t, is.Contains(out, "Already bookmarked: hero.png"))

	out = p.mustRun(t, "refs")
	assert.Equal(t, out, "hero.png\nTextures\n")

	_, err := os.Stat(filepath.Join(p.root, "UserSettings", "abm", "bookmarks.json"))
	assert.NilError(t, err)
}

func TestAdd_RejectsMissingAndOutside(t *testing.T) {
	p := newTestProject(t)
	outside := filepath.Join(t.TempDir(), "other.png")
	assert.NilError(t, os.WriteFile(outside, []byte("x"), 0644))

	out, err := p.run(t, "", "add", p.path("nope.png"), outside, p.path("level.scene"))
	assert.ErrorContains(t, err, "2 of 3 paths could not be added")
	assert.Assert(t, is.Contains(out, "Skipping"))
	assert.Assert(t, is.Contains(out, "Added level.scene"))

	assert.Equal(t, p.mustRun(t, "refs"), "level.scene\n")
}

func TestRemove(t *testing.T) {
	p := newTestProject(t)
	p.mustRun(t, "add", p.path("hero.png"), p.path("level.scene"), p.path("Textures/wall.png"))

	out := p.mustRun(t, "remove", "hero.png", p.path("Textures/wall.png"), "unknown.png")
	assert.Assert(t, is.Contains(out, "Removed hero.png"))
	assert.Assert(t, is.Contains(out, "Removed Textures/wall.png"))
	assert.Assert(t, is.Contains(out, "Not bookmarked: unknown.png"))

	assert.Equal(t, p.mustRun(t, "refs"), "level.scene\n")
}

func TestList(t *testing.T) {
	p := newTestProject(t)

	assert.Assert(t, is.Contains(p.mustRun(t, "list"), "No bookmarks"))

	p.mustRun(t, "add", p.path("hero.png"), p.path("Textures"), p.path("Textures/wall.png"))
	assert.NilError(t, os.Remove(p.path("hero.png")))

	out := p.mustRun(t, "list")
	assert.Assert(t, is.Contains(out, "Reference"))
	assert.Assert(t, is.Contains(out, "wall.png"))
	assert.Assert(t, is.Contains(out, "folder"))
	assert.Assert(t, is.Contains(out, "missing"))

	out = p.mustRun(t, "list", "--tree")
	assert.Assert(t, is.Contains(out, filepath.Base(p.root)))
	assert.Assert(t, is.Contains(out, "Textures/"))
	assert.Assert(t, is.Contains(out, "hero.png (missing)"))
}

func TestList_InvalidColumns(t *testing.T) {
	p := newTestProject(t)
	assert.NilError(t, os.WriteFile(p.config, []byte(`{"columns": ["open", "remove"]}`), 0644))

	_, err := p.run(t, "", "list")
	assert.ErrorContains(t, err, "config columns")
}

func TestPrune(t *testing.T) {
	p := newTestProject(t)
	p.mustRun(t, "add", p.path("hero.png"), p.path("level.scene"))

	assert.Assert(t, is.Contains(p.mustRun(t, "prune"), "Nothing to prune"))

	assert.NilError(t, os.Remove(p.path("hero.png")))
	out := p.mustRun(t, "prune")
	assert.Assert(t, is.Contains(out, "Removed hero.png"))
	assert.Assert(t, is.Contains(out, "Pruned 1 missing bookmark"))
	assert.Equal(t, p.mustRun(t, "refs"), "level.scene\n")
}

func TestCheck(t *testing.T) {
	p := newTestProject(t)
	p.mustRun(t, "add", p.path("hero.png"), p.path("level.scene"))
	_, err := p.run(t, "hero.png\nlevel.scene\n../escape.png\n", "refs", "set")
	assert.NilError(t, err)
	assert.NilError(t, os.Remove(p.path("level.scene")))

	out := p.mustRun(t, "check", "--jobs", "2")
	assert.Assert(t, is.Contains(out, "missing  level.scene"))
	assert.Assert(t, is.Contains(out, "invalid  ../escape.png"))
	assert.Assert(t, is.Contains(out, "1 ok, 1 missing, 1 invalid"))

	out = p.mustRun(t, "check", "--progress")
	assert.Assert(t, is.Contains(out, "Checking 3/3"))
}

func TestOpen(t *testing.T) {
	p := newTestProject(t)
	p.mustRun(t, "add", p.path("hero.png"), p.path("level.scene"), p.path("Textures"))

	out := p.mustRun(t, "open", "hero")
	assert.Assert(t, is.Contains(out, "Opening: hero.png"))
	assert.DeepEqual(t, p.host.opened, []string{"hero.png"})

	// folders are revealed
	p.mustRun(t, "open", "Textures")
	assert.DeepEqual(t, p.host.located, []string{"Textures"})

	out = p.mustRun(t, "open", "--reveal", "level.scene")
	assert.Assert(t, is.Contains(out, "Revealing: level.scene"))
	assert.DeepEqual(t, p.host.located, []string{"Textures", "level.scene"})

	out = p.mustRun(t, "open", "qqq")
	assert.Assert(t, is.Contains(out, "No bookmarks found for 'qqq'"))
}

func TestExportImport(t *testing.T) {
	p := newTestProject(t)
	p.mustRun(t, "add", p.path("hero.png"), p.path("Textures/wall.png"))

	file := filepath.Join(t.TempDir(), "out", "bookmarks.html")
	out := p.mustRun(t, "export", file)
	assert.Assert(t, is.Contains(out, "Exported 2 bookmarks"))

	data, err := os.ReadFile(file)
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(string(data), "file://"))

	// clear, then import the exported file back
	out, err = p.run(t, "", "refs", "set", "-")
	assert.NilError(t, err, out)
	assert.Equal(t, p.mustRun(t, "refs"), "")

	out = p.mustRun(t, "import", file)
	assert.Assert(t, is.Contains(out, "Imported 2 bookmarks"))

	out = p.mustRun(t, "import", file)
	assert.Assert(t, is.Contains(out, "Imported 0 bookmarks (2 already bookmarked)"))
}

func TestRefsSet(t *testing.T) {
	p := newTestProject(t)
	p.mustRun(t, "add", p.path("hero.png"))

	out, err := p.run(t, "hero.png\n\nlevel.scene\n", "refs", "set")
	assert.NilError(t, err, out)
	assert.Assert(t, is.Contains(out, "Saved 2 references"))

	out, err = p.run(t, "hero.png\nlevel.scene\n", "refs", "set", "-")
	assert.NilError(t, err, out)
	assert.Assert(t, is.Contains(out, "No changes"))

	file := filepath.Join(t.TempDir(), "refs.txt")
	assert.NilError(t, os.WriteFile(file, []byte("Textures/wall.png\n"), 0644))
	p.mustRun(t, "refs", "set", file)
	assert.Equal(t, p.mustRun(t, "refs"), "Textures/wall.png\n")
}

func TestSQLiteBackend(t *testing.T) {
	p := newTestProject(t)
	assert.NilError(t, os.WriteFile(p.config, []byte(`{"backend": "sqlite"}`), 0644))

	p.mustRun(t, "add", p.path("hero.png"))
	assert.Equal(t, p.mustRun(t, "refs"), "hero.png\n")

	_, err := os.Stat(filepath.Join(p.root, "UserSettings", "abm", "bookmarks.db"))
	assert.NilError(t, err)
}

func TestProjectMustBeDirectory(t *testing.T) {
	p := newTestProject(t)
	p.root = p.path("hero.png")

	_, err := p.run(t, "", "refs")
	assert.ErrorContains(t, err, "not a directory")
}

func TestIsTerminal(t *testing.T) {
	assert.Assert(t, !isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NilError(t, err)
	defer f.Close()
	assert.Assert(t, !isTerminal(f))
}
