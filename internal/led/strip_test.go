package led

import (
	"bytes"
	"errors"
	"testing"
)

func newTestStrip(t *testing.T, size int) (*Strip, *FakeConn) {
	t.Helper()
	conn := &FakeConn{}
	s, err := NewStrip(size, conn, nil)
	if err != nil {
		t.Fatalf("NewStrip: %v", err)
	}
	return s, conn
}

func TestNewStripFlushesTerminator(t *testing.T) {
	_, conn := newTestStrip(t, 4)
	if len(conn.Writes) != 1 {
		t.Fatalf("expected 1 initial write, got %d", len(conn.Writes))
	}
	if !bytes.Equal(conn.Writes[0], []byte{0, 0, 0, 0}) {
		t.Errorf("initial write = %v, want terminator only", conn.Writes[0])
	}
}

func TestNewStripInvalidSize(t *testing.T) {
	if _, err := NewStrip(0, &FakeConn{}, nil); err == nil {
		t.Error("expected error for size 0")
	}
}

func TestStripWriteFlush(t *testing.T) {
	s, conn := newTestStrip(t, 2)

	if err := s.Write([]Color{MustColor(1, 1, 2, 3), MustColor(2, 4, 5, 6)}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []byte{
		0xE1, 3, 2, 1,
		0xE2, 6, 5, 4,
		0, 0, 0, 0,
	}
	got := conn.Writes[len(conn.Writes)-1]
	if !bytes.Equal(got, want) {
		t.Errorf("flushed %v, want %v", got, want)
	}

	// Buffer drained: the next flush is terminator only
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := conn.Writes[len(conn.Writes)-1]; !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("second flush %v, want terminator only", got)
	}
}

func TestStripOverflow(t *testing.T) {
	s, _ := newTestStrip(t, 2)

	if err := s.Write([]Color{Blank}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	err := s.Write([]Color{Blank, Blank})
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}

	// Exactly filling is fine
	if err := s.Write([]Color{Blank}); err != nil {
		t.Errorf("filling to size: unexpected error %v", err)
	}
}

func TestStripClear(t *testing.T) {
	s, conn := newTestStrip(t, 3)
	s.Write([]Color{MustColor(5, 1, 1, 1)})
	s.Clear()
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := conn.Writes[len(conn.Writes)-1]
	if len(got) != 4*3+4 {
		t.Fatalf("cleared frame length %d, want %d", len(got), 16)
	}
	for i := 0; i < 3; i++ {
		if got[4*i] != 0xE0 {
			t.Errorf("led %d: header %#x, want 0xE0", i, got[4*i])
		}
	}
}

func TestStripFlushError(t *testing.T) {
	s, conn := newTestStrip(t, 1)
	conn.TxError = errors.New("bus fault")
	s.Write([]Color{Blank})
	if err := s.Flush(); err == nil {
		t.Error("expected flush error")
	}
}

func TestStripClose(t *testing.T) {
	conn := &FakeConn{}
	closed := false
	s, err := NewStrip(2, conn, func() error { closed = true; return nil })
	if err != nil {
		t.Fatalf("NewStrip: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closed {
		t.Error("transport not closed")
	}
	last := conn.Writes[len(conn.Writes)-1]
	if len(last) != 4*2+4 {
		t.Errorf("close should blank the strip, wrote %v", last)
	}
}
