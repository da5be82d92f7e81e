// Package ptsession reads a proprietary, obfuscated session file produced by
// a commercial digital audio workstation and extracts its structural model:
// audio sources, regions, MIDI regions with note events, and tracks.
//
// The package is organized the way the teacher library organizes a codec:
// a thin root-level facade (this file) over focused internal packages for
// deobfuscation, block parsing and model extraction.
package ptsession

import (
	"os"

	"github.com/pkg/errors"

	"ptsession/block"
	"ptsession/extract"
	"ptsession/internal/cipher"
	"ptsession/model"
	"ptsession/version"
)

// sessionData holds everything a load produces; Session wraps a pointer to
// one of these so that a reload can build a full replacement before
// publishing it atomically.
type sessionData struct {
	plain       []byte
	version     int
	bigEndian   bool
	sessionRate uint32

	sources      []*model.Source
	audioRegions []*model.Region
	midiRegions  []*model.Region
	audioTracks  []*model.Track
	midiTracks   []*model.Track
	compounds    []*model.Compound
}

// Session is the top-level handle on a loaded session file. It owns the
// plaintext buffer and the populated model for the lifetime of the most
// recent Load call.
type Session struct {
	data *sessionData
}

// Load opens path, deobfuscates it, detects its format version, parses its
// block tree and extracts the session model, rescaling every timeline value
// to targetRate. It returns a fresh Session; use (*Session).Load to reuse an
// existing handle.
func Load(path string, targetRate uint32) (*Session, error) {
	s := &Session{}
	if err := s.Load(path, targetRate); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-runs the full pipeline against path and, on success, atomically
// replaces s's state; on failure s is left untouched.
func (s *Session) Load(path string, targetRate uint32) error {
	data, err := build(path, targetRate)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

// build runs the fixed Deobfuscator -> Version -> Block tree -> Session
// rate -> Sources -> Regions -> Tracks -> MIDI events -> MIDI regions ->
// MIDI tracks pipeline.
func build(path string, targetRate uint32) (*sessionData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newLoadError(KindFileOpen, err)
	}

	plain, err := cipher.Deobfuscate(raw)
	if err != nil {
		if cerr, ok := errors.Cause(err).(*cipher.Error); ok {
			switch cerr.Kind {
			case cipher.KindTruncated:
				return nil, newLoadError(KindTruncated, err)
			case cipher.KindUnknownCipher:
				return nil, newLoadError(KindUnknownCipher, err)
			}
		}
		return nil, newLoadError(KindTruncated, err)
	}

	info, err := version.Detect(plain)
	if err != nil {
		if _, ok := errors.Cause(err).(*version.ErrUnsupported); ok {
			return nil, newLoadError(KindUnsupportedVersion, err)
		}
		return nil, newLoadError(KindMalformed, err)
	}

	forest, err := block.Parse(plain, info.BigEndian)
	if err != nil {
		return nil, newLoadError(KindMalformed, err)
	}

	rate, err := extract.SessionRate(forest, plain, info.BigEndian)
	if err != nil {
		if errors.Cause(err) == extract.ErrBadSessionRate {
			return nil, newLoadError(KindBadSessionRate, err)
		}
		// No 0x1028 block: permitted legacy fallback for pre-block-tree
		// versions (§4.5.9).
		legacyRate, legacyErr := extract.LegacySessionRate(plain, info.BigEndian)
		if legacyErr != nil {
			return nil, newLoadError(KindMalformed, err)
		}
		rate = legacyRate
	}

	ratefactor := extract.RateFactor(rate, targetRate)
	desc := extract.DescriptorFor(info.Version, info.BigEndian)

	sources := extract.Sources(forest, plain, info.BigEndian)
	audioRegions := extract.AudioRegions(forest, plain, desc, sources, ratefactor)
	audioTracks := extract.AudioTracks(forest, plain, desc, audioRegions)

	chunks := extract.MIDIEvents(forest, plain)
	midiRegions := extract.MIDIRegions(forest, plain, info.BigEndian, chunks)
	midiTracks := extract.MIDITracks(forest, plain, info.BigEndian, midiRegions)

	compounds := extract.Compounds(forest, plain)

	return &sessionData{
		plain:        plain,
		version:      info.Version,
		bigEndian:    info.BigEndian,
		sessionRate:  rate,
		sources:      sources,
		audioRegions: audioRegions,
		midiRegions:  midiRegions,
		audioTracks:  audioTracks,
		midiTracks:   midiTracks,
		compounds:    compounds,
	}, nil
}

// Sources returns the session's referenced audio sources, in index order.
func (s *Session) Sources() []*model.Source { return s.data.sources }

// AudioRegions returns the session's audio regions, in index order.
func (s *Session) AudioRegions() []*model.Region { return s.data.audioRegions }

// MIDIRegions returns the session's MIDI regions, in index order.
func (s *Session) MIDIRegions() []*model.Region { return s.data.midiRegions }

// AudioTracks returns the session's audio track placements.
func (s *Session) AudioTracks() []*model.Track { return s.data.audioTracks }

// MIDITracks returns the session's MIDI track placements.
func (s *Session) MIDITracks() []*model.Track { return s.data.midiTracks }

// Compounds returns the session's region-group descriptors, if any (10+
// sessions only).
func (s *Session) Compounds() []*model.Compound { return s.data.compounds }

// SessionRate returns the session's declared sample rate, in Hz.
func (s *Session) SessionRate() uint32 { return s.data.sessionRate }

// Version returns the session's detected format version.
func (s *Session) Version() int { return s.data.version }
