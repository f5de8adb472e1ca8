package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testTree(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "core", "core.yml"), "core:\n  deps: []\n")
	writeFile(t, filepath.Join(base, "sys", "xtimer", "xtimer.yml"), "xtimer:\n  deps: [periph_timer]\n")
	writeFile(t, filepath.Join(base, "drivers", "periph_timer", "periph_timer.yml.orig"), "periph_timer:\n  deps: []\n")
	writeFile(t, filepath.Join(base, "drivers", "include", "hidden.yml"), "hidden:\n  deps: []\n")
	writeFile(t, filepath.Join(base, "drivers", "README.md"), "not a descriptor")
	writeFile(t, filepath.Join(base, "examples", "hello.yml"), "hello: {}\n")
	return base
}

func TestScan(t *testing.T) {
	base := testTree(t)

	got, err := Scan(base, nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := map[string]string{
		"core":         filepath.Join(base, "core", "core.yml"),
		"xtimer":       filepath.Join(base, "sys", "xtimer", "xtimer.yml"),
		"periph_timer": filepath.Join(base, "drivers", "periph_timer", "periph_timer.yml.orig"),
		"hidden":       filepath.Join(base, "drivers", "include", "hidden.yml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected modules (-want +got):\n%s", diff)
	}
}

func TestScan_CustomDirs(t *testing.T) {
	base := testTree(t)

	got, err := Scan(base, []string{"examples", "missing"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(got) != 1 || got["hello"] == "" {
		t.Errorf("Unexpected modules %v", got)
	}
}

func TestMerge(t *testing.T) {
	base := testTree(t)

	reg, err := Merge(base, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if _, ok := reg["hidden"]; ok {
		t.Error("Expected descriptors under include/ to be skipped")
	}
	for _, name := range []string{"core", "xtimer", "periph_timer", "hello"} {
		if _, ok := reg[name]; !ok {
			t.Errorf("Expected module %q in registry", name)
		}
	}

	xtimer, ok := reg["xtimer"].(map[string]any)
	if !ok {
		t.Fatalf("Unexpected xtimer descriptor %#v", reg["xtimer"])
	}
	if diff := cmp.Diff([]any{"periph_timer"}, xtimer["deps"]); diff != "" {
		t.Errorf("Unexpected deps (-want +got):\n%s", diff)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	writeFile(t, path, "foo: [unterminated\n")

	if err := make(Registry).Load(path); err == nil {
		t.Error("Expected malformed descriptor to fail")
	}
}
