package asset

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideRoot = errors.New("path is not inside the project")
	ErrNotExist    = errors.New("asset does not exist")
)

// Ref identifies an asset by its project-relative, slash-separated path.
type Ref string

// CleanRef returns the canonical spelling of ref, so that equivalent
// spellings such as "./a.txt" and "dir/../a.txt" compare equal. The empty
// reference stays empty.
func CleanRef(ref Ref) Ref {
	if ref == "" {
		return ""
	}
	clean := path.Clean(string(ref))
	if clean == "." {
		return ""
	}
	return Ref(clean)
}

// Asset is a resolved reference to a live file or directory in the project.
type Asset struct {
	Ref   Ref
	Path  string // absolute, system-native
	Name  string
	IsDir bool
}

// Registry resolves references against the live asset database.
type Registry interface {
	Resolve(ref Ref) (Asset, bool)
}

// FSRegistry is a Registry backed by a project directory on disk.
type FSRegistry struct {
	root string
}

// NewFSRegistry creates a registry rooted at the given project directory.
func NewFSRegistry(root string) (*FSRegistry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	return &FSRegistry{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute project directory.
func (r *FSRegistry) Root() string {
	return r.root
}

// Resolve looks the reference up on disk. Missing files and references
// that escape the project resolve to false.
func (r *FSRegistry) Resolve(ref Ref) (Asset, bool) {
	clean := string(CleanRef(ref))
	if clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return Asset{}, false
	}

	abs := filepath.Join(r.root, filepath.FromSlash(clean))
	info, err := os.Stat(abs)
	if err != nil {
		return Asset{}, false
	}

	return Asset{
		Ref:   Ref(clean),
		Path:  abs,
		Name:  info.Name(),
		IsDir: info.IsDir(),
	}, true
}

// RefFor converts an absolute or working-directory-relative path into a
// reference. The path does not need to exist.
func (r *FSRegistry) RefFor(p string) (Ref, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}
	return Ref(filepath.ToSlash(rel)), nil
}

// Lookup converts a path into a resolved asset, failing when the path is
// outside the project or does not exist.
func (r *FSRegistry) Lookup(p string) (Asset, error) {
	ref, err := r.RefFor(p)
	if err != nil {
		return Asset{}, err
	}
	a, ok := r.Resolve(ref)
	if !ok {
		return Asset{}, fmt.Errorf("%s: %w", ref, ErrNotExist)
	}
	return a, nil
}
