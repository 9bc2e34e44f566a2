package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quill/internal/core"
	"quill/internal/diag"
)

func writeQL(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTokenizeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeQL(t, dir, "a.ql", "(lambda [x] x)\n")

	res, err := Tokenize(path, Options{})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	// 7 значимых токенов + EOF
	if len(res.Tokens) != 8 {
		t.Fatalf("token count %d", len(res.Tokens))
	}
}

func TestExpandFile(t *testing.T) {
	dir := t.TempDir()
	path := writeQL(t, dir, "a.ql", "(lambda [x] x)\n")

	res, err := Expand(path, Options{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	want := core.LamTree([]core.LocalID{1}, core.RefTree(1))
	if !res.Tree.Equal(want) {
		t.Fatalf("tree: %s", core.Print(res.Tree, res.Strings))
	}
	if res.Pretty == "" {
		t.Fatalf("missing pretty rendering")
	}
}

func TestExpandFileUnknownHead(t *testing.T) {
	dir := t.TempDir()
	path := writeQL(t, dir, "a.ql", "(foo)\n")

	res, err := Expand(path, Options{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ExpandUnknown {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ExpandUnknown, got %v", res.Bag.Items())
	}
}

func TestExpandFileStuck(t *testing.T) {
	dir := t.TempDir()
	path := writeQL(t, dir, "a.ql",
		"(let-syntax [m (lambda [stx] (wait-signal 7))] (m))\n")

	res, err := Expand(path, Options{})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ExpandStuck {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ExpandStuck, got %v", res.Bag.Items())
	}
}

func TestExpandUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeQL(t, dir, "a.ql", "((lambda [x] x) 5)\n")

	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := Options{Cache: cache}

	cold, err := Expand(path, opts)
	if err != nil {
		t.Fatalf("cold expand: %v", err)
	}
	if cold.Cached {
		t.Fatalf("first run must not hit the cache")
	}

	warm, err := Expand(path, opts)
	if err != nil {
		t.Fatalf("warm expand: %v", err)
	}
	if !warm.Cached {
		t.Fatalf("second run must hit the cache")
	}
	if warm.Pretty != cold.Pretty {
		t.Fatalf("cached rendering differs: %q vs %q", warm.Pretty, cold.Pretty)
	}
	if !warm.Tree.Equal(cold.Tree) {
		t.Fatalf("cached tree differs")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	key := [32]byte{1, 2, 3}
	in := DiskPayload{
		Schema:     diskCacheSchemaVersion,
		SourcePath: "a.ql",
		Pretty:     "(lam (local-0) local-0)",
		Root:       cacheNode(core.LamTree([]core.LocalID{1}, core.RefTree(1))),
	}
	if err := cache.Put(key, &in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Pretty != in.Pretty {
		t.Fatalf("pretty: %q", out.Pretty)
	}
	if !out.Root.tree().Equal(core.LamTree([]core.LocalID{1}, core.RefTree(1))) {
		t.Fatalf("tree mismatch after round trip")
	}

	var miss DiskPayload
	ok, err = cache.Get([32]byte{9}, &miss)
	if err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
}

func TestExpandDir(t *testing.T) {
	dir := t.TempDir()
	writeQL(t, dir, "b.ql", "42\n")
	writeQL(t, dir, "a.ql", "(quote x)\n")

	results, err := ExpandDir(context.Background(), dir, 2, Options{})
	if err != nil {
		t.Fatalf("expand dir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count %d", len(results))
	}
	// результаты идут в отсортированном порядке путей
	if filepath.Base(results[0].Path) != "a.ql" || filepath.Base(results[1].Path) != "b.ql" {
		t.Fatalf("order: %s, %s", results[0].Path, results[1].Path)
	}
	if !results[1].Result.Tree.Equal(core.SigTree(42)) {
		t.Fatalf("b.ql tree mismatch")
	}
}
