// Package idgen turns a LoRaWAN node key table into a Makefile include that
// selects the keys of a node by its ID.
package idgen

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var linePattern = regexp.MustCompile(`^(?P<org>[-a-zA-Z0-9_]+)\s+(?P<id>[a-z0-9]+)\s+` +
	`\{ (?P<appeui_lsb>[x ,0-9a-zA-Z]+) \}\s+` +
	`\{ (?P<appeui_msb>[x ,0-9a-zA-Z]+) \}\s+` +
	`\{ (?P<deveui_lsb>[x ,0-9a-zA-Z]+) \}\s+` +
	`\{ (?P<deveui_msb>[x ,0-9a-zA-Z]+) \}\s+` +
	`\{ (?P<appkey_lsb>[x ,0-9a-zA-Z]+) \}\s+` +
	`\{ (?P<appkey_msb>[x ,0-9a-zA-Z]+) \}`)

// Entry is one node of the key table. Key groups hold the C array
// initializer text, e.g. "0x70, 0xB3, 0xD5".
type Entry struct {
	Org string
	ID  string

	AppEUILSB, AppEUIMSB string
	DevEUILSB, DevEUIMSB string
	AppKeyLSB, AppKeyMSB string
}

// ParseLine parses a key table line. Lines that do not match are reported
// with ok == false.
func ParseLine(line string) (e Entry, ok bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	group := func(name string) string {
		return m[linePattern.SubexpIndex(name)]
	}
	return Entry{
		Org:       group("org"),
		ID:        group("id"),
		AppEUILSB: group("appeui_lsb"),
		AppEUIMSB: group("appeui_msb"),
		DevEUILSB: group("deveui_lsb"),
		DevEUIMSB: group("deveui_msb"),
		AppKeyLSB: group("appkey_lsb"),
		AppKeyMSB: group("appkey_msb"),
	}, true
}

// Makefile renders the conditional block assigning the node's MSB keys.
func (e Entry) Makefile() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ifeq (%s,$(ID))\n", e.ID)
	fmt.Fprintf(&sb, "  DEVEUI ?= %s\n", hexBytes(e.DevEUIMSB))
	fmt.Fprintf(&sb, "  APPEUI ?= %s\n", hexBytes(e.AppEUIMSB))
	fmt.Fprintf(&sb, "  APPKEY ?= %s\n", hexBytes(e.AppKeyMSB))
	sb.WriteString("endif\n")
	return sb.String()
}

// hexBytes joins the last two characters of every byte literal.
func hexBytes(group string) string {
	var sb strings.Builder
	for _, b := range strings.Split(group, ", ") {
		sb.WriteString(b[max(len(b)-2, 0):])
	}
	return sb.String()
}

// Generate reads a key table from r and writes the Makefile include to w.
// It returns the number of nodes written.
func Generate(r io.Reader, w io.Writer) (int, error) {
	var n int

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if e, ok := ParseLine(line); ok {
				if _, werr := io.WriteString(w, e.Makefile()); werr != nil {
					return n, fmt.Errorf("writing node %s: %w", e.ID, werr)
				}
				n++
			}
		}
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("reading key table: %w", err)
		}
	}
}
