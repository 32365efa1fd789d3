package classpath

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/alampiss/buck/java"
)

// Dir finds class files below a directory laid out by package.
type Dir struct {
	root  string
	cache cache
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) String() string { return d.root }

func (d *Dir) Find(binaryName string) (*java.ClassModel, bool) {
	return d.cache.get(binaryName, func() (*java.ClassModel, bool) {
		path := filepath.Join(d.root, filepath.FromSlash(EntryPath(binaryName)))
		model, err := java.ClassModelFromFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, false
		}
		if err != nil {
			log.Warningf("skipping %s: %s", path, err)
			return nil, false
		}
		log.Debugf("loaded %s from %s", binaryName, d.root)
		return model, true
	})
}
