package adv

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lines(s string) []string {
	l := strings.SplitAfter(s, "\n")
	if l[len(l)-1] == "" {
		l = l[:len(l)-1]
	}
	return l
}

func render(t *testing.T, fn func(*strings.Builder) error) string {
	t.Helper()

	var sb strings.Builder
	if err := fn(&sb); err != nil {
		t.Fatalf("Failed to render view: %v", err)
	}
	return sb.String()
}

func TestJoin_RoundTrip(t *testing.T) {
	p := mustParse(t, sampleLog)

	var want strings.Builder
	for _, l := range lines(sampleLog) {
		if recordPattern.MatchString(l) {
			want.WriteString(l)
		}
	}

	got := render(t, func(sb *strings.Builder) error { return p.Join(sb) })
	if diff := cmp.Diff(want.String(), got); diff != "" {
		t.Errorf("Join does not reproduce the parsed lines (-want +got):\n%s", diff)
	}
}

func TestFilter_Partition(t *testing.T) {
	p := mustParse(t, sampleLog)

	cwa := render(t, func(sb *strings.Builder) error { return p.FilterCWA(sb) })
	non := render(t, func(sb *strings.Builder) error { return p.FilterNonCWA(sb) })
	all := render(t, func(sb *strings.Builder) error { return p.Join(sb) })

	if n := strings.Count(cwa, "\n"); n != 3 {
		t.Errorf("Expected 3 CWA packets, got %d", n)
	}
	if n := strings.Count(non, "\n"); n != 2 {
		t.Errorf("Expected 2 non-CWA packets, got %d", n)
	}

	// merging both outputs in record order must give the join output
	var merged strings.Builder
	cwaLines, nonLines := lines(cwa), lines(non)
	for _, l := range lines(all) {
		switch {
		case len(cwaLines) > 0 && cwaLines[0] == l:
			merged.WriteString(l)
			cwaLines = cwaLines[1:]
		case len(nonLines) > 0 && nonLines[0] == l:
			merged.WriteString(l)
			nonLines = nonLines[1:]
		default:
			t.Fatalf("Line %q emitted by neither filter", l)
		}
	}
	if merged.String() != all {
		t.Errorf("Filters do not partition the record set")
	}
}

func TestFilter_CaseSensitiveMarker(t *testing.T) {
	p := mustParse(t, "1.0;0;0;AA;-50;0303"+strings.ToLower(CWAServiceMarker)+"\n")

	if got := render(t, func(sb *strings.Builder) error { return p.FilterCWA(sb) }); got != "" {
		t.Errorf("Expected lower case marker not to match, got %q", got)
	}
}

func TestCompress(t *testing.T) {
	p := mustParse(t, sampleLog)

	var sb strings.Builder
	seen, err := p.Compress(&sb)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"1600000000.250;0;1;C0:11:22:33:44:55;-70;02011A03036FFD17166FFD0011\n",
		"1600000000.500;3;0;00:A0:50:11:22:33;-82;0201060AFF4C001005\n",
		"1600000002.750;4;2;6E:00:00:00:00:01;-90;0A094E6F6465\n",
		"1600000003.000;0;1;C0:11:22:33:44:55;-71;02011A03036FFD17166FFD0022\n",
	}
	if diff := cmp.Diff(want, lines(sb.String())); diff != "" {
		t.Errorf("Unexpected compress output (-want +got):\n%s", diff)
	}

	if n := seen["C0:11:22:33:44:55-RANDOM;02011A03036FFD17166FFD0011"]; n != 2 {
		t.Errorf("Expected repeated fingerprint to be counted twice, got %d", n)
	}
}

func TestCompress_FixedPoint(t *testing.T) {
	first := render(t, func(sb *strings.Builder) error {
		_, err := mustParse(t, sampleLog, sampleLog).Compress(sb)
		return err
	})
	second := render(t, func(sb *strings.Builder) error {
		_, err := mustParse(t, first).Compress(sb)
		return err
	})

	if first != second {
		t.Errorf("Compress is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestCompress_FingerprintGrouping(t *testing.T) {
	log := "1.0;0;0;AA;-50;01\n" +
		"2.0;0;1;AA;-50;01\n" + // same address string, different kind
		"3.0;2;0;AA;-40;01\n" + // same fingerprint, different event and rssi
		"4.0;0;0;AA;-50;02\n"

	got := render(t, func(sb *strings.Builder) error {
		_, err := mustParse(t, log).Compress(sb)
		return err
	})

	want := "1.0;0;0;AA;-50;01\n2.0;0;1;AA;-50;01\n4.0;0;0;AA;-50;02\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
