package serial

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func TestForwarder_Forward(t *testing.T) {
	var buf bytes.Buffer
	f := NewForwarder(newTestLogger(&buf))

	in := "border router up\r\n\nrx 6LoWPAN frame\npartial"
	if err := f.Forward(context.Background(), strings.NewReader(in)); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	want := `level=WARN msg="border router up"` + "\n" +
		`level=WARN msg=""` + "\n" +
		`level=WARN msg="rx 6LoWPAN frame"` + "\n" +
		`level=WARN msg=partial` + "\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestForwarder_TooManyDecodeErrors(t *testing.T) {
	var buf bytes.Buffer
	f := NewForwarder(newTestLogger(&buf), WithDecodeErrorsThreshold(2))

	in := "ok\n\xff\nok again\n\xfe\n\xfd\nnever\n"
	err := f.Forward(context.Background(), strings.NewReader(in))
	if !errors.Is(err, ErrTooManyDecodeErrors) {
		t.Fatalf("Expected ErrTooManyDecodeErrors, got %v", err)
	}
	if strings.Contains(buf.String(), "never") {
		t.Error("Expected forwarding to stop at the threshold")
	}
	if !strings.Contains(buf.String(), `msg="ok again"`) {
		t.Error("Expected valid lines between errors to be forwarded")
	}
}

func TestForwarder_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	f := NewForwarder(newTestLogger(&buf))

	done := make(chan error, 1)
	go func() {
		done <- f.Forward(ctx, pr)
	}()

	if _, err := pw.Write([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Forward did not return after cancel")
	}
}
