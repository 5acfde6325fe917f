package exporter

import (
	"path"

	"github.com/disiqueira/gotree/v3"
	"github.com/nikbrunner/abm/internal/view"
)

// fileTree renders references as a directory tree.
type fileTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func newFileTree(rootLabel string) fileTree {
	return fileTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t fileTree) dir(dirPath string) gotree.Tree {
	if dirPath == "." || dirPath == "" {
		return t.tree
	}
	d := t.dirs[dirPath]
	if d == nil {
		d = t.dir(path.Dir(dirPath)).Add(path.Base(dirPath) + "/")
		t.dirs[dirPath] = d
	}
	return d
}

// RenderTree renders rows as a tree of their reference paths under
// rootLabel. Invalid rows are listed with a "missing" marker.
func RenderTree(rows []view.Row, rootLabel string) string {
	t := newFileTree(rootLabel)
	for _, r := range rows {
		if r.Placeholder {
			continue
		}
		ref := string(r.Ref)
		label := path.Base(ref)
		switch {
		case !r.Valid:
			label += " (missing)"
		case r.Container:
			label += "/"
		}
		t.dir(path.Dir(ref)).Add(label)
	}
	return t.tree.Print()
}
