package ptsession

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"ptsession/internal/cipher"
)

// appendBlock appends one top-level block (7-byte header + payload) to buf.
func appendBlock(buf []byte, blockType uint16, payload []byte) []byte {
	header := make([]byte, 7)
	header[0] = 0x5A
	header[1] = byte(blockType)
	header[2] = byte(blockType >> 8)
	size := uint32(len(payload))
	header[3] = byte(size)
	header[4] = byte(size >> 8)
	header[5] = byte(size >> 16)
	header[6] = byte(size >> 24)
	buf = append(buf, header...)
	buf = append(buf, payload...)
	return buf
}

// versionBlockPayload builds the sentinel+product+version payload the
// version detector's structured scan looks for.
func versionBlockPayload(product string, ver byte) []byte {
	payload := []byte{0x03, 0x00, 0x00}
	n := len(product)
	payload = append(payload, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	payload = append(payload, []byte(product)...)
	payload = append(payload, ver)
	return payload
}

// rateBlockPayload builds an 0x1028 block payload: the content type in the
// first two bytes, two filler bytes, then the 4-byte little-endian rate.
func rateBlockPayload(rate uint32) []byte {
	return []byte{
		0x28, 0x10, 0x00, 0x00,
		byte(rate), byte(rate >> 8), byte(rate >> 16), byte(rate >> 24),
	}
}

// baseHeader returns a minimal 0x14-byte deobfuscation header selecting the
// 0x01 cipher family with a reachable xor_value.
func baseHeader() []byte {
	h := make([]byte, 0x14)
	h[0x12] = 0x01
	h[0x13] = 0x35
	return h
}

// encryptForTest XORs plain with the keystream its own header selects,
// turning a crafted plaintext into the raw on-disk form Deobfuscate expects.
// The cipher is its own inverse, so this reuses Deobfuscate directly.
func encryptForTest(t *testing.T, plain []byte) []byte {
	t.Helper()
	raw, err := cipher.Deobfuscate(plain)
	if err != nil {
		t.Fatalf("encryptForTest: %v", err)
	}
	return raw
}

func writeSessionFile(t *testing.T, plain []byte) string {
	t.Helper()
	raw := encryptForTest(t, plain)
	path := filepath.Join(t.TempDir(), "session.ptf")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadEmptySession(t *testing.T) {
	plain := baseHeader()
	plain = appendBlock(plain, 0x03, versionBlockPayload("ProTools", 10))
	plain = appendBlock(plain, 0x10, rateBlockPayload(48000))

	path := writeSessionFile(t, plain)
	s, err := Load(path, 48000)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Version() != 10 {
		t.Fatalf("got version %d, want 10", s.Version())
	}
	if s.SessionRate() != 48000 {
		t.Fatalf("got rate %d, want 48000", s.SessionRate())
	}
	if len(s.Sources()) != 0 {
		t.Fatalf("got %d sources, want 0", len(s.Sources()))
	}
	if len(s.AudioRegions()) != 0 || len(s.MIDIRegions()) != 0 {
		t.Fatal("expected no regions in an empty session")
	}
	if len(s.AudioTracks()) != 0 || len(s.MIDITracks()) != 0 {
		t.Fatal("expected no tracks in an empty session")
	}
}

func TestLoadInvalidSessionRate(t *testing.T) {
	plain := baseHeader()
	plain = appendBlock(plain, 0x03, versionBlockPayload("ProTools", 10))
	plain = appendBlock(plain, 0x10, rateBlockPayload(1000)) // below MinSessionRate

	path := writeSessionFile(t, plain)
	_, err := Load(path, 48000)
	if err == nil {
		t.Fatal("expected an error for an out-of-range session rate")
	}
	lerr, ok := errors.Cause(err).(*LoadError)
	if !ok {
		t.Fatalf("got error of type %T, want *LoadError", errors.Cause(err))
	}
	if lerr.Kind != KindBadSessionRate {
		t.Fatalf("got Kind %v, want BadSessionRate", lerr.Kind)
	}
}

func TestLoadUnknownCipher(t *testing.T) {
	raw := make([]byte, 0x40)
	raw[0x12] = 0x02 // not a recognized xor_type

	path := filepath.Join(t.TempDir(), "session.ptf")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path, 48000)
	if err == nil {
		t.Fatal("expected an error for an unrecognized cipher")
	}
	lerr, ok := errors.Cause(err).(*LoadError)
	if !ok {
		t.Fatalf("got error of type %T, want *LoadError", errors.Cause(err))
	}
	if lerr.Kind != KindUnknownCipher {
		t.Fatalf("got Kind %v, want UnknownCipher", lerr.Kind)
	}
}

func TestLoadTruncatedFile(t *testing.T) {
	raw := make([]byte, 5) // shorter than the 0x14-byte header
	path := filepath.Join(t.TempDir(), "session.ptf")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path, 48000)
	if err == nil {
		t.Fatal("expected an error for a truncated file")
	}
	lerr, ok := errors.Cause(err).(*LoadError)
	if !ok {
		t.Fatalf("got error of type %T, want *LoadError", errors.Cause(err))
	}
	if lerr.Kind != KindTruncated {
		t.Fatalf("got Kind %v, want Truncated", lerr.Kind)
	}
}

func TestLoadUnsupportedVersion(t *testing.T) {
	plain := baseHeader()
	plain = appendBlock(plain, 0x03, versionBlockPayload("ProTools", 200))

	path := writeSessionFile(t, plain)
	_, err := Load(path, 48000)
	if err == nil {
		t.Fatal("expected an error for an unsupported version")
	}
	lerr, ok := errors.Cause(err).(*LoadError)
	if !ok {
		t.Fatalf("got error of type %T, want *LoadError", errors.Cause(err))
	}
	if lerr.Kind != KindUnsupportedVersion {
		t.Fatalf("got Kind %v, want UnsupportedVersion", lerr.Kind)
	}
}

func TestLoadReplacesStateAtomically(t *testing.T) {
	plain := baseHeader()
	plain = appendBlock(plain, 0x03, versionBlockPayload("ProTools", 9))
	plain = appendBlock(plain, 0x10, rateBlockPayload(44100))
	path := writeSessionFile(t, plain)

	var s Session
	if err := s.Load(path, 44100); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Version() != 9 {
		t.Fatalf("got version %d, want 9", s.Version())
	}

	badPath := filepath.Join(t.TempDir(), "missing.ptf")
	if err := s.Load(badPath, 44100); err == nil {
		t.Fatal("expected an error loading a missing file")
	}
	// The prior successful state must survive a failed reload.
	if s.Version() != 9 {
		t.Fatalf("got version %d after failed reload, want 9 (state should be untouched)", s.Version())
	}
}
