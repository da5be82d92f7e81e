package extract

import (
	"testing"

	"ptsession/block"
)

func TestSessionRate(t *testing.T) {
	plain := make([]byte, 64)
	// Block payload starts at offset 20; rate field sits at payload+4.
	b := &block.Block{ContentType: sessionRateContentType, Offset: 13}
	// PayloadStart() = Offset + 7 (block header size), so payload starts at 20.
	putU4LE(plain, b.PayloadStart()+4, 48000)

	rate, err := SessionRate([]*block.Block{b}, plain, false)
	if err != nil {
		t.Fatalf("SessionRate: %v", err)
	}
	if rate != 48000 {
		t.Fatalf("got %d, want 48000", rate)
	}
}

func TestSessionRateOutOfRange(t *testing.T) {
	plain := make([]byte, 64)
	b := &block.Block{ContentType: sessionRateContentType, Offset: 13}
	putU4LE(plain, b.PayloadStart()+4, 1000)

	_, err := SessionRate([]*block.Block{b}, plain, false)
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestSessionRateNotFound(t *testing.T) {
	plain := make([]byte, 64)
	_, err := SessionRate(nil, plain, false)
	if err == nil {
		t.Fatal("expected an error when the rate block is absent")
	}
}

func TestLegacySessionRate(t *testing.T) {
	plain := make([]byte, 0x14+0x40)
	marker := []byte{0x5A, 0x03, 0x00}
	at := 0x14
	copy(plain[at:], marker)
	putU3LE(plain, at+0x34, 44100)

	rate, err := LegacySessionRate(plain, false)
	if err != nil {
		t.Fatalf("LegacySessionRate: %v", err)
	}
	if rate != 44100 {
		t.Fatalf("got %d, want 44100", rate)
	}
}

func TestRateFactor(t *testing.T) {
	if f := RateFactor(44100, 48000); f <= 1.0 {
		t.Fatalf("got %f, want > 1.0", f)
	}
	if f := RateFactor(48000, 48000); f != 1.0 {
		t.Fatalf("got %f, want 1.0", f)
	}
}

func putU4LE(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}

func putU3LE(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
}
