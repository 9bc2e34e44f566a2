package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the CLI looks for when resolving defaults.
const ManifestName = "quill.toml"

// Manifest is the parsed quill.toml of a project.
type Manifest struct {
	Path   string // где нашли манифест
	Root   string // директория манифеста
	Config Config
}

// Config mirrors the TOML structure.
type Config struct {
	Package PackageConfig `toml:"package"`
	Expand  ExpandConfig  `toml:"expand"`
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name string `toml:"name"`
}

// ExpandConfig is the [expand] section: expander defaults the CLI applies
// when flags are left unset.
type ExpandConfig struct {
	MaxDiagnostics int    `toml:"max-diagnostics"`
	Trace          string `toml:"trace"`
	Jobs           int    `toml:"jobs"`
}

// ErrPackageSectionMissing indicates that [package] is missing.
var ErrPackageSectionMissing = errors.New("missing [package]")

// Find walks upward from startDir looking for quill.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses a manifest file.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	cfg.Package.Name = strings.TrimSpace(cfg.Package.Name)
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// LoadNearest finds and parses the closest manifest above startDir.
// Returns ok=false without error when no manifest exists.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Scaffold writes a minimal manifest for a new project. It refuses to
// overwrite an existing file.
func Scaffold(dir, name string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	content := fmt.Sprintf("[package]\nname = %q\n\n[expand]\nmax-diagnostics = 100\n", name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
