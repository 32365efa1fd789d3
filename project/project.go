// Package project loads the abi.yaml build description: which source
// trees make up each target, what classpath they are compiled against and
// where their ABI files are written.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("abi.project")

// ConfigNames are the file names searched for, in order.
var ConfigNames = []string{"abi.yaml", "abi.yml"}

const EnvPrefix = "ABI_"

// Project is a loaded abi.yaml. All paths are absolute.
type Project struct {
	RootDir    string    `koanf:"-"`
	ConfigFile string    `koanf:"-"`
	Format     string    `koanf:"format"`
	OutDir     string    `koanf:"out_dir"`
	Jobs       int       `koanf:"jobs"`
	Strict     bool      `koanf:"strict"`
	Log        Log       `koanf:"log"`
	Targets    []*Target `koanf:"targets"`
}

type Log struct {
	Verbosity int    `koanf:"verbosity"`
	File      string `koanf:"file"`
}

// Target is one unit of ABI extraction: every Java file below Srcs is
// entered into a single pass that resolves against Classpath.
type Target struct {
	Name      string   `koanf:"name"`
	Srcs      []string `koanf:"srcs"`
	Classpath []string `koanf:"classpath"`
	Project   *Project `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"format":        "line",
		"out_dir":       filepath.Join("build", "abi"),
		"jobs":          runtime.NumCPU(),
		"strict":        false,
		"log.verbosity": 0,
		"log.file":      "",
	}
}

// Find searches dir and its parents for a config file and returns its
// path, or "" when there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load finds the config file starting from the working directory.
func Load(flags *pflag.FlagSet) (*Project, error) {
	return LoadFrom(".", "", flags)
}

// LoadFrom loads a project. An explicit configFile wins; otherwise the
// file is searched for from dir upwards. Without any config file the
// project consists of defaults rooted at dir and has no targets.
//
// Precedence, lowest first: defaults, config file, ABI_* environment,
// flags that were set on the command line.
func LoadFrom(dir, configFile string, flags *pflag.FlagSet) (*Project, error) {
	k := koanf.New(".")

	if configFile == "" {
		configFile = Find(dir)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if configFile != "" {
		if configFile, err = filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", configFile, err)
		}
		root = filepath.Dir(configFile)
	}

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if configFile != "" {
		log.Debugf("loading %s", configFile)
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	p := &Project{RootDir: root, ConfigFile: configFile}
	if err := k.Unmarshal("", p); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := p.resolve(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("%s: %w", configFile, err)
		}
		return nil, err
	}
	log.Infof("project at %s: %d targets", p.RootDir, len(p.Targets))
	return p, nil
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"format":   "format",
	"out-dir":  "out_dir",
	"jobs":     "jobs",
	"strict":   "strict",
	"verbose":  "log.verbosity",
	"log-file": "log.file",
}

// envKey turns ABI_OUT_DIR into out_dir and ABI_LOG_FILE into log.file.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

func (p *Project) resolve() error {
	if p.Jobs < 1 {
		p.Jobs = 1
	}
	p.OutDir = p.abs(p.OutDir)
	p.Log.File = p.abs(p.Log.File)

	seen := make(map[string]bool)
	for i, t := range p.Targets {
		if t == nil || t.Name == "" {
			return fmt.Errorf("target %d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target %q", t.Name)
		}
		seen[t.Name] = true
		if len(t.Srcs) == 0 {
			return fmt.Errorf("target %q has no srcs", t.Name)
		}
		t.Project = p
		for j := range t.Srcs {
			t.Srcs[j] = p.abs(t.Srcs[j])
		}
		for j := range t.Classpath {
			t.Classpath[j] = p.abs(t.Classpath[j])
		}
	}
	return nil
}

func (p *Project) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.RootDir, path)
}

// Target returns the target with the given name, or nil if not found.
func (p *Project) Target(name string) *Target {
	for _, t := range p.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TargetsInOrder returns the targets sorted by name.
func (p *Project) TargetsInOrder() []*Target {
	out := append([]*Target(nil), p.Targets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Select returns the named targets in the given order, or every target in
// name order when names is empty.
func (p *Project) Select(names ...string) ([]*Target, error) {
	if len(names) == 0 {
		return p.TargetsInOrder(), nil
	}
	out := make([]*Target, 0, len(names))
	for _, name := range names {
		t := p.Target(name)
		if t == nil {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}

// JavaFiles returns the .java files below the target's srcs. Each src is
// walked in lexical order; a src may also name a single file. A file
// reachable from two srcs is listed once.
func (t *Target) JavaFiles() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, src := range t.Srcs {
		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".java") || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan java files in %s: %w", src, err)
		}
	}
	return files, nil
}

// OutputPath is where the target's ABI is written in the given format.
func (t *Target) OutputPath(format string) string {
	return filepath.Join(t.Project.OutDir, t.Name+"."+format)
}

// EnsureOutDir creates the project's output directory if it doesn't exist.
func (p *Project) EnsureOutDir() error {
	if err := os.MkdirAll(p.OutDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", p.OutDir, err)
	}
	return nil
}
