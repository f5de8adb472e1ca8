package idgen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const node1 = "fu-berlin  n01  " +
	"{ 0x00, 0x01 }  { 0x70, 0xB3, 0xD5 }  " +
	"{ 0x10, 0x11 }  { 0x00, 0x04, 0xA3, 0x0B }  " +
	"{ 0x20, 0x21 }  { 0xAA, 0xBB, 0xCC, 0xDD }  // lab node\n"

func TestParseLine(t *testing.T) {
	e, ok := ParseLine(node1)
	if !ok {
		t.Fatal("Expected line to match")
	}

	want := Entry{
		Org:       "fu-berlin",
		ID:        "n01",
		AppEUILSB: "0x00, 0x01",
		AppEUIMSB: "0x70, 0xB3, 0xD5",
		DevEUILSB: "0x10, 0x11",
		DevEUIMSB: "0x00, 0x04, 0xA3, 0x0B",
		AppKeyLSB: "0x20, 0x21",
		AppKeyMSB: "0xAA, 0xBB, 0xCC, 0xDD",
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Unexpected entry (-want +got):\n%s", diff)
	}
}

func TestParseLine_NoMatch(t *testing.T) {
	for _, line := range []string{
		"",
		"# org id appeui ...\n",
		"fu-berlin N01 { 0x00 } { 0x00 } { 0x00 } { 0x00 } { 0x00 } { 0x00 }\n",
		"fu-berlin n01 { 0x00 } { 0x00 } { 0x00 } { 0x00 } { 0x00 }\n",
	} {
		if _, ok := ParseLine(line); ok {
			t.Errorf("Expected %q not to match", line)
		}
	}
}

func TestEntry_Makefile(t *testing.T) {
	e, _ := ParseLine(node1)

	want := "ifeq (n01,$(ID))\n" +
		"  DEVEUI ?= 0004A30B\n" +
		"  APPEUI ?= 70B3D5\n" +
		"  APPKEY ?= AABBCCDD\n" +
		"endif\n"
	if got := e.Makefile(); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestGenerate(t *testing.T) {
	node2 := strings.ReplaceAll(node1, "n01", "n02")
	in := "# key table\n" + node1 + "garbage\n" + strings.TrimSuffix(node2, "\n")

	var out bytes.Buffer
	n, err := Generate(strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 nodes, got %d", n)
	}

	got := out.String()
	if strings.Count(got, "endif\n") != 2 {
		t.Errorf("Expected two blocks, got:\n%s", got)
	}
	if !strings.HasPrefix(got, "ifeq (n01,$(ID))\n") || !strings.Contains(got, "ifeq (n02,$(ID))\n") {
		t.Errorf("Unexpected block order:\n%s", got)
	}
}
