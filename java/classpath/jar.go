package classpath

import (
	"archive/zip"
	"fmt"

	"github.com/alampiss/buck/java"
)

// Jar finds class files inside a jar. The archive stays open until Close.
type Jar struct {
	path    string
	reader  *zip.ReadCloser
	entries map[string]*zip.File
	cache   cache
}

func OpenJar(path string) (*Jar, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}
	j := &Jar{path: path, reader: r, entries: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		j.entries[f.Name] = f
	}
	log.Debugf("opened %s with %d entries", path, len(j.entries))
	return j, nil
}

func (j *Jar) String() string { return j.path }

func (j *Jar) Find(binaryName string) (*java.ClassModel, bool) {
	return j.cache.get(binaryName, func() (*java.ClassModel, bool) {
		f, ok := j.entries[EntryPath(binaryName)]
		if !ok {
			return nil, false
		}
		rc, err := f.Open()
		if err != nil {
			log.Warningf("skipping %s!%s: %s", j.path, f.Name, err)
			return nil, false
		}
		defer rc.Close()
		model, err := java.ClassModelFromReader(rc)
		if err != nil {
			log.Warningf("skipping %s!%s: %s", j.path, f.Name, err)
			return nil, false
		}
		log.Debugf("loaded %s from %s", binaryName, j.path)
		return model, true
	})
}

func (j *Jar) Close() error {
	return j.reader.Close()
}
