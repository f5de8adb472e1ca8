package adv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// ErrEncoding is returned when an input file is not valid UTF-8 text.
var ErrEncoding = errors.New("invalid UTF-8 encoding")

// time;event_type;addr_type;addr;rssi;payload[...]
var recordPattern = regexp.MustCompile(`^(\d+\.\d+);(\d);(\d);([:a-fA-F0-9]+);(-?\d+);([a-zA-Z0-9]+)`)

// WithLogger sets the logger used to report dropped lines and parse progress
func WithLogger(logger *slog.Logger) func(*Parser) {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser holds the advertisement packets of one or more capture logs.
// The record set is filled once while parsing and never modified after,
// every view is a read-only traversal in original file-then-line order.
type Parser struct {
	pkts   []Packet
	logger *slog.Logger
}

// New parses every log file in the given order. Lines that do not look like
// a record are skipped, anything else that goes wrong aborts the whole run.
func New(paths []string, options ...func(*Parser)) (*Parser, error) {
	p := NewEmpty(options...)
	for _, path := range paths {
		if err := p.parseFile(path); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewEmpty creates a Parser without any records. Use Parse to feed it.
func NewEmpty(options ...func(*Parser)) *Parser {
	p := Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&p)
	}
	return &p
}

func (p *Parser) parseFile(path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing log file: %w", cErr)
		}
	}()

	return p.Parse(path, f)
}

// Parse appends the records read from r. The name is only used in errors
// and log messages.
func (p *Parser) Parse(name string, r io.Reader) error {
	br := bufio.NewReader(r)

	var lineNo, parsed, dropped int
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++

			if !utf8.ValidString(line) {
				return fmt.Errorf("%s:%d: %w", name, lineNo, ErrEncoding)
			}

			pkt, ok, pErr := parseLine(line)
			if pErr != nil {
				return fmt.Errorf("%s:%d: %w", name, lineNo, pErr)
			}
			if ok {
				p.pkts = append(p.pkts, pkt)
				parsed++
			} else {
				dropped++
				p.logger.Debug("dropping line", slog.String("file", name), slog.Int("line", lineNo))
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading %s: %w", name, err)
		}
	}

	p.logger.Info("parsed log file",
		slog.String("file", name),
		slog.Int("packets", parsed),
		slog.Int("dropped", dropped))

	return nil
}

// parseLine returns ok == false for lines that are not records at all, and
// an error for records with fields that cannot be represented.
func parseLine(line string) (pkt Packet, ok bool, err error) {
	m := recordPattern.FindStringSubmatch(line)
	if m == nil {
		return Packet{}, false, nil
	}

	// Out of range numbers fail the parse like invalid enumerants, an
	// infinite capture time cannot be binned or ordered.
	ts, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Packet{}, false, fmt.Errorf("invalid time %q: %w", m[1], err)
	}

	// single digits, Atoi cannot fail here
	eventValue, _ := strconv.Atoi(m[2])
	event, err := ParseEventType(eventValue)
	if err != nil {
		return Packet{}, false, err
	}

	addrValue, _ := strconv.Atoi(m[3])
	addrType, err := ParseAddrType(addrValue)
	if err != nil {
		return Packet{}, false, err
	}

	rssi, err := strconv.Atoi(m[5])
	if err != nil {
		return Packet{}, false, fmt.Errorf("invalid rssi %q: %w", m[5], err)
	}

	return Packet{
		Time:    ts,
		Event:   event,
		Addr:    Address{Addr: m[4], Type: addrType},
		RSSI:    rssi,
		Payload: m[6],
		Raw:     line,
	}, true, nil
}

// Len returns the number of parsed packets.
func (p *Parser) Len() int {
	return len(p.pkts)
}

// Packets iterates over the record set in original order.
func (p *Parser) Packets() iter.Seq2[int, Packet] {
	return func(yield func(int, Packet) bool) {
		for i, pkt := range p.pkts {
			if !yield(i, pkt) {
				return
			}
		}
	}
}
