package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	cwaRecord1  = "1600000000.250;0;1;C0:11:22:33:44:55;-70;02011A03036FFD\n"
	otherRecord = "1600000000.500;3;0;00:A0:50:11:22:33;-82;0201060AFF4C00\n"
	cwaRecord2  = "1600003700.000;0;1;C0:11:22:33:44:55;-66;02011A03036FFD\n"
)

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = Run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Views(t *testing.T) {
	dir := t.TempDir()
	log1 := writeLog(t, dir, "a.log", cwaRecord1, "noise\n", otherRecord)
	log2 := writeLog(t, dir, "b.log", cwaRecord2)

	tests := []struct {
		cmd  string
		want string
	}{
		{cmd: "join", want: cwaRecord1 + otherRecord + cwaRecord2},
		{cmd: "cwa", want: cwaRecord1 + cwaRecord2},
		{cmd: "noncwa", want: otherRecord},
		{cmd: "compress", want: cwaRecord1 + otherRecord},
		{cmd: "nodeinfo", want: "00:A0:50:11:22:33-PUBLIC:\n" +
			"  rssi: -82dbm / -82dbm / -82.00dbm (min/max/avg)\n" +
			"C0:11:22:33:44:55-RANDOM:\n" +
			"  rssi: -70dbm / -66dbm / -68.00dbm (min/max/avg)\n" +
			"  itvl: 3699.75s / 3699.75s / 3699.75s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.cmd, log1, log2)
			if code != 0 {
				t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
			}
			if diff := cmp.Diff(tt.want, stdout); diff != "" {
				t.Errorf("Unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeLog(t, dir, "bad.log", "1.0;9;0;AA;-50;01\n")

	if code, _, _ := run(t, "join"); code == 0 {
		t.Error("Expected missing log files to fail")
	}
	if code, _, _ := run(t, "join", filepath.Join(dir, "missing.log")); code == 0 {
		t.Error("Expected missing log file to fail")
	}

	code, stdout, stderr := run(t, "join", bad)
	if code == 0 {
		t.Error("Expected invalid event type to fail")
	}
	if stdout != "" {
		t.Errorf("Expected no output, got %q", stdout)
	}
	if !strings.Contains(stderr, "bad.log:1") {
		t.Errorf("Expected error to name file and line, got %q", stderr)
	}
}

func TestRun_Plot(t *testing.T) {
	dir := t.TempDir()
	log1 := writeLog(t, dir, "a.log", cwaRecord1, otherRecord)
	log2 := writeLog(t, dir, "b.log", cwaRecord2)

	out := filepath.Join(dir, baseName([]string{log1, log2}))
	code, _, stderr := run(t, "plot", "-f", "png,jpeg,svg", "-o", out, log1, log2)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
	}

	for _, ext := range []string{"png", "jpeg", "svg"} {
		path := filepath.Join(dir, "a+1_cnt."+ext)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected chart %s: %v", path, err)
		}
	}

	if code, _, _ = run(t, "plot", "-f", "pdf", log1); code == 0 {
		t.Error("Expected unsupported format to fail")
	}

	code, _, stderr = run(t, "plot", "-bin", "1e-9", "-o", out, log1)
	if code == 0 {
		t.Error("Expected bin size below the time resolution to fail")
	}
	if !strings.Contains(stderr, "invalid bin size") {
		t.Errorf("Expected bin size error, got %q", stderr)
	}
}

func TestRun_StoreAndExport(t *testing.T) {
	dir := t.TempDir()
	log1 := writeLog(t, dir, "a.log", cwaRecord1, otherRecord, cwaRecord2)
	db := filepath.Join(dir, "capture.sqlite")

	code, stdout, stderr := run(t, "store", "-db", db, "-source", "balcony", log1)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
	}
	if stdout != "1\n" {
		t.Errorf("Expected session ID 1, got %q", stdout)
	}

	code, stdout, stderr = run(t, "export", "-db", db, "-s", "1", "-addr", "C0:11:22:33:44:55-RANDOM")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
	}
	if diff := cmp.Diff(cwaRecord1+cwaRecord2, stdout); diff != "" {
		t.Errorf("Unexpected export (-want +got):\n%s", diff)
	}

	code, stdout, stderr = run(t, "export", "-db", db, "-s", "1", "-from", "1600000000.4", "-to", "1600000001")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
	}
	if stdout != otherRecord {
		t.Errorf("Expected %q, got %q", otherRecord, stdout)
	}

	code, stdout, stderr = run(t, "sessions", "-db", db)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "1\t") || !strings.Contains(stdout, "\tbalcony\t"+log1+"\n") {
		t.Errorf("Unexpected sessions %q", stdout)
	}

	if code, _, _ = run(t, "export", "-db", db); code == 0 {
		t.Error("Expected missing session ID to fail")
	}
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "adparser.yaml")
	err := os.WriteFile(config, []byte("settings:\n  logLevel: debug\nanalysis:\n  binSize: 60\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	log1 := writeLog(t, dir, "a.log", cwaRecord1, "noise\n")

	code, _, stderr := run(t, "-c", config, "join", log1)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "dropping line") {
		t.Errorf("Expected debug output, got %q", stderr)
	}

	if code, _, _ = run(t, "-c", filepath.Join(dir, "missing.yaml"), "join", log1); code == 0 {
		t.Error("Expected missing config file to fail")
	}
	if code, _, _ = run(t, "-log-level", "loud", "join", log1); code == 0 {
		t.Error("Expected invalid log level to fail")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"bin.yaml":    "analysis:\n  binSize: -1\n",
		"format.yaml": "plot:\n  formats: [pdf]\n",
		"syntax.yaml": "settings: [\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("Expected %s to be rejected", name)
		}
	}
}

func TestBaseName(t *testing.T) {
	if got := baseName([]string{"/logs/balcony.log"}); got != "balcony" {
		t.Errorf("Expected balcony, got %s", got)
	}
	if got := baseName([]string{"balcony.log", "x.log", "y.log"}); got != "balcony+2" {
		t.Errorf("Expected balcony+2, got %s", got)
	}
}
