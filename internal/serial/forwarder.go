package serial

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"unicode/utf8"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate of the border router console
	DefaultBaudRate = 115200

	// DecodeErrorsThreshold defines the number of consecutive undecodable lines allowed
	DecodeErrorsThreshold = 5
)

// ErrTooManyDecodeErrors is returned when the number of consecutive
// undecodable lines exceeds the threshold
var ErrTooManyDecodeErrors = errors.New("too many consecutive decode errors")

// Open opens a serial port with 8N1 framing at the given baud rate.
func Open(tty string, baudRate int) (serial.Port, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(tty, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", tty, err)
	}
	return port, nil
}

// WithDecodeErrorsThreshold sets the threshold for consecutive undecodable lines
func WithDecodeErrorsThreshold(threshold uint8) func(*Forwarder) {
	return func(f *Forwarder) {
		f.decodeErrorsThreshold = threshold
	}
}

// WithDiagnostics sets the logger for problems of the forwarder itself,
// forwarded lines always go to the output logger.
func WithDiagnostics(logger *slog.Logger) func(*Forwarder) {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// Forwarder re-emits every line read from a device as a log entry.
type Forwarder struct {
	out    *slog.Logger
	logger *slog.Logger

	decodeErrorsThreshold uint8
}

// NewForwarder creates a Forwarder that writes lines to out.
func NewForwarder(out *slog.Logger, options ...func(*Forwarder)) *Forwarder {
	f := Forwarder{
		out:                   out,
		logger:                slog.New(slog.NewTextHandler(io.Discard, nil)),
		decodeErrorsThreshold: DecodeErrorsThreshold,
	}
	for _, option := range options {
		option(&f)
	}
	return &f
}

// Forward reads newline terminated text from r until EOF, a read error or
// the context is cancelled. If r is an io.Closer it is closed on
// cancellation to unblock the pending read.
func (f *Forwarder) Forward(ctx context.Context, r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				_ = c.Close()
			case <-stop:
			}
		}()
		defer func() {
			close(stop)
			wg.Wait()
		}()
	}

	var decodeErrors uint8

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(line, []byte("\n"))
			line = bytes.TrimSuffix(line, []byte("\r"))

			if !utf8.Valid(line) {
				decodeErrors++
				f.logger.Warn("dropping undecodable line", slog.Int("length", len(line)))

				if decodeErrors >= f.decodeErrorsThreshold {
					return ErrTooManyDecodeErrors
				}
			} else {
				decodeErrors = 0 // reset counter
				f.out.Warn(string(line))
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, fs.ErrClosed) {
				return nil
			}
			return fmt.Errorf("reading line: %w", err)
		}
	}
}
