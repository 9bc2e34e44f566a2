package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[expand]\nmax-diagnostics = 25\njobs = 4\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("name: %q", m.Config.Package.Name)
	}
	if m.Config.Expand.MaxDiagnostics != 25 || m.Config.Expand.Jobs != 4 {
		t.Fatalf("expand section: %+v", m.Config.Expand)
	}
	if m.Root != dir {
		t.Fatalf("root: %q", m.Root)
	}
}

func TestLoadManifestMissingPackage(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[expand]\njobs = 1\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing [package]")
	}
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"up\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want under %q", path, root)
	}
}

func TestFindMissing(t *testing.T) {
	// отдельный TempDir без манифеста вплоть до корня может встретить
	// чужой quill.toml выше — поэтому проверяем только отсутствие ошибки
	_, _, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	path, err := Scaffold(dir, "fresh")
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load scaffolded: %v", err)
	}
	if m.Config.Package.Name != "fresh" {
		t.Fatalf("name: %q", m.Config.Package.Name)
	}

	if _, err := Scaffold(dir, "again"); err == nil {
		t.Fatalf("scaffold must refuse to overwrite")
	}
}
