// Package classpath supplies compiled dependency classes to the ABI
// extractor. A Lookup maps a binary name such as java.util.Map$Entry to
// the class model read from a directory, a jar or the built-in platform
// table.
package classpath

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/alampiss/buck/java"
)

var log = commonlog.GetLogger("abi.classpath")

type Lookup interface {
	// Find returns the class with the given binary name. The model's own
	// Name may differ from binaryName when the class file is inconsistent
	// with its location; callers decide what to make of that.
	Find(binaryName string) (*java.ClassModel, bool)
}

// Empty finds nothing.
var Empty Lookup = Chain(nil)

// Chain consults each lookup in order and returns the first hit.
type Chain []Lookup

func (c Chain) Find(binaryName string) (*java.ClassModel, bool) {
	for _, l := range c {
		if m, ok := l.Find(binaryName); ok {
			return m, true
		}
	}
	return nil, false
}

// EntryPath maps a binary name to the relative path of its class file.
func EntryPath(binaryName string) string {
	return strings.ReplaceAll(binaryName, ".", "/") + ".class"
}

type cacheEntry struct {
	model *java.ClassModel
	ok    bool
}

// cache remembers both hits and misses; loading happens under the lock so
// a class file is parsed once even when passes share a lookup.
type cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func (c *cache) get(name string, load func() (*java.ClassModel, bool)) (*java.ClassModel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[name]; ok {
		return e.model, e.ok
	}
	if c.entries == nil {
		c.entries = make(map[string]cacheEntry)
	}
	m, ok := load()
	c.entries[name] = cacheEntry{model: m, ok: ok}
	return m, ok
}

// Path is an opened classpath: its entries in order followed by the
// platform table.
type Path struct {
	Chain
	closers []io.Closer
}

// Open opens each entry of a classpath. Directories and .jar/.zip files
// are supported; entries that do not exist are skipped with a warning,
// the way javac treats them.
func Open(entries ...string) (*Path, error) {
	p := &Path{}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		info, err := os.Stat(entry)
		if errors.Is(err, os.ErrNotExist) {
			log.Warningf("classpath entry %s does not exist", entry)
			continue
		}
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("classpath entry %s: %w", entry, err)
		}
		switch ext := strings.ToLower(filepath.Ext(entry)); {
		case info.IsDir():
			p.Chain = append(p.Chain, NewDir(entry))
		case ext == ".jar" || ext == ".zip":
			jar, err := OpenJar(entry)
			if err != nil {
				p.Close()
				return nil, err
			}
			p.Chain = append(p.Chain, jar)
			p.closers = append(p.closers, jar)
		default:
			log.Warningf("ignoring classpath entry %s: not a directory or jar", entry)
		}
	}
	p.Chain = append(p.Chain, Platform())
	log.Debugf("opened classpath with %d entries", len(p.Chain))
	return p, nil
}

// Split splits a classpath string on the OS list separator.
func Split(cp string) []string {
	if cp == "" {
		return nil
	}
	return filepath.SplitList(cp)
}

func (p *Path) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	p.closers = nil
	return errors.Join(errs...)
}
