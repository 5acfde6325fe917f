package asset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/abm/internal/asset"
	"gotest.tools/v3/assert"
)

func newProject(t *testing.T) (*asset.FSRegistry, string) {
	t.Helper()
	root := t.TempDir()
	assert.NilError(t, os.MkdirAll(filepath.Join(root, "Assets", "Scenes"), 0755))
	assert.NilError(t, os.WriteFile(filepath.Join(root, "Assets", "Foo.txt"), []byte("foo"), 0644))

	reg, err := asset.NewFSRegistry(root)
	assert.NilError(t, err)
	return reg, reg.Root()
}

func TestFSRegistry_Resolve(t *testing.T) {
	reg, root := newProject(t)

	tests := []struct {
		name    string
		ref     asset.Ref
		wantOK  bool
		wantDir bool
		wantNm  string
	}{
		{"file", "Assets/Foo.txt", true, false, "Foo.txt"},
		{"directory", "Assets/Scenes", true, true, "Scenes"},
		{"unclean path", "Assets/./Scenes/", true, true, "Scenes"},
		{"missing", "Assets/Missing.txt", false, false, ""},
		{"empty", "", false, false, ""},
		{"escapes root", "../outside", false, false, ""},
		{"root itself", ".", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.Resolve(tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.ref, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.IsDir != tt.wantDir {
				t.Errorf("IsDir = %v, want %v", got.IsDir, tt.wantDir)
			}
			if got.Name != tt.wantNm {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantNm)
			}
			if want := filepath.Join(root, filepath.FromSlash(string(got.Ref))); got.Path != want {
				t.Errorf("Path = %q, want %q", got.Path, want)
			}
		})
	}
}

func TestFSRegistry_ResolveAfterDelete(t *testing.T) {
	reg, root := newProject(t)

	if _, ok := reg.Resolve("Assets/Foo.txt"); !ok {
		t.Fatal("expected Foo.txt to resolve")
	}
	assert.NilError(t, os.Remove(filepath.Join(root, "Assets", "Foo.txt")))
	if _, ok := reg.Resolve("Assets/Foo.txt"); ok {
		t.Error("deleted asset should no longer resolve")
	}
}

func TestFSRegistry_RefFor(t *testing.T) {
	reg, root := newProject(t)

	ref, err := reg.RefFor(filepath.Join(root, "Assets", "Foo.txt"))
	assert.NilError(t, err)
	assert.Equal(t, ref, asset.Ref("Assets/Foo.txt"))

	_, err = reg.RefFor(filepath.Dir(root))
	if !errors.Is(err, asset.ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot, got %v", err)
	}

	_, err = reg.RefFor(root)
	if !errors.Is(err, asset.ErrOutsideRoot) {
		t.Errorf("project root itself should be rejected, got %v", err)
	}
}

func TestFSRegistry_Lookup(t *testing.T) {
	reg, root := newProject(t)

	a, err := reg.Lookup(filepath.Join(root, "Assets", "Scenes"))
	assert.NilError(t, err)
	assert.Assert(t, a.IsDir)

	_, err = reg.Lookup(filepath.Join(root, "Assets", "Nope.txt"))
	if !errors.Is(err, asset.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestCleanRef(t *testing.T) {
	tests := []struct {
		in, want asset.Ref
	}{
		{"", ""},
		{".", ""},
		{"a.txt", "a.txt"},
		{"./a.txt", "a.txt"},
		{"dir/../a.txt", "a.txt"},
		{"Assets//Scenes/", "Assets/Scenes"},
		{"../outside", "../outside"},
	}
	for _, tt := range tests {
		if got := asset.CleanRef(tt.in); got != tt.want {
			t.Errorf("CleanRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
