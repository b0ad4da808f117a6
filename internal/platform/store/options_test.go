package store

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithLogger_SetsOnStore(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lg := zerolog.New(&buf) // buffered so output is assertable

	opt := WithLogger(lg)

	s := &Store{}
	if err := opt(s); err != nil {
		t.Fatalf("WithLogger returned error: %v", err)
	}

	// a line through the store logger must land in the buffer
	s.Log.Info().Str("component", "store").Msg("pg pool ready")
	if buf.Len() == 0 {
		t.Fatalf("expected logger to write to buffer, got empty output")
	}

	// reapplying the option keeps the logger usable
	prevLen := buf.Len()
	if err := opt(s); err != nil {
		t.Fatalf("WithLogger second apply error: %v", err)
	}
	s.Log.Info().Msg("ch session ready")
	if buf.Len() == prevLen {
		t.Fatalf("expected additional log output after reapply")
	}
}
