// Package model defines the session object graph recovered from a session
// file: sources, regions, MIDI events, tracks and region groups.
//
// ref: session data model, reverse-engineered from a commercial DAW's
// project file format.
package model

// NoSourceIndex is the Index of the sentinel source bound to a region whose
// source could not be resolved against the source list.
const NoSourceIndex = -1

// NoRegionIndex is the format's sentinel region index for a track slot that
// placement has not filled. The model itself represents such a slot as a nil
// Track.Region.
const NoRegionIndex = 0xFFFF

// ZeroTicks is the tick zero-point used both as a MIDI region's starting
// position and as the reference subtracted from raw MIDI event positions.
//
// Its origin in the original format is not documented; treated as a literal.
const ZeroTicks uint64 = 0xE8D4A51000

// Source is a referenced external audio file.
type Source struct {
	// Filename as stored in the session, extension canonicalized to the
	// recognized type tag (.wav or .aiff).
	Filename string
	// Index is the zero-based, stable insertion-order identifier.
	Index int
	// Length is the source's sample length, 0 if unknown.
	Length uint64
	// Position is an optional absolute position, used only by legacy
	// (pre-block-tree) versions; zero otherwise.
	Position uint64
}

// Unresolved reports whether s is the sentinel "unknown source" binding.
func (s *Source) Unresolved() bool {
	return s == nil || s.Filename == ""
}

// MIDIEvent is a single MIDI note event belonging to a MIDI region.
type MIDIEvent struct {
	// Pos is the event's tick position, relative to its chunk's zero-tick
	// reference.
	Pos uint64
	// Length is the event's duration in ticks.
	Length uint64
	// Note is a 7-bit MIDI note number.
	Note uint8
	// Velocity is a 7-bit MIDI velocity.
	Velocity uint8
}

// Valid reports whether the event's note and velocity are within the 7-bit
// MIDI range. Events failing this predicate are dropped by the extractor as
// partial-decryption artifacts.
func (e MIDIEvent) Valid() bool {
	return e.Note <= 127 && e.Velocity <= 127
}

// Region is a time-bounded window into a source, or an ordered list of MIDI
// events when Source is nil.
type Region struct {
	// Name of the region as stored in the session.
	Name string
	// Index is the region's zero-based raw position among the on-disk region
	// entries; entries dropped during extraction still consume an index, so
	// indices in a region list may have gaps.
	Index int
	// StartPos is the region's timeline position, in samples for audio
	// regions. For MIDI regions it is in ticks: ZeroTicks as extracted, and
	// the distance from ZeroTicks once placed on a MIDI track.
	StartPos uint64
	// SampleOffset is the offset into the bound source, in samples. Unused
	// for MIDI regions.
	SampleOffset uint64
	// Length is the region's length, in samples for audio regions or ticks
	// for MIDI regions.
	Length uint64
	// Source is the bound audio source, nil for MIDI regions. An unresolved
	// audio region is bound to a sentinel Source with an empty Filename and
	// Index NoSourceIndex (see SourceIndex and Source.Unresolved).
	Source *Source
	// SourceIndex is the raw on-disk source reference, kept even when Source
	// could not be resolved.
	SourceIndex int
	// Events holds the region's MIDI note events; empty for audio regions.
	Events []MIDIEvent
}

// IsMIDI reports whether the region carries MIDI events rather than bounding
// an audio source.
func (r *Region) IsMIDI() bool {
	return r.Source == nil && len(r.Events) > 0
}

// Track is a single playback lane placement: a track's name/index paired
// with one region. A track hosting multiple regions is flattened into
// multiple Track entries sharing Name/Index and differing by Region, per the
// (track_index, region_index) keying described by the data model.
type Track struct {
	// Name of the track as stored in the session.
	Name string
	// Index is the zero-based, stable insertion-order identifier of the
	// track (not of this placement).
	Index int
	// Playlist is the playlist slot index; legacy, usually 0.
	Playlist int
	// Region is the region placed on this track, nil if no placement was
	// resolved (such tracks are dropped for MIDI, kept with a nil Region for
	// audio so callers can observe an empty track).
	Region *Region
}

// Compound is a region-group descriptor used by version 10+ sessions for
// nested region groups. Optional: callers that do not need nested groups may
// ignore the extractor's Compounds output entirely.
type Compound struct {
	// Index is this group's own identifier.
	Index int
	// Level is this group's nesting depth offset.
	Level int
	// NextIndex threads a flattened-tree traversal to the next sibling or
	// parent group; -1 terminates the chain.
	NextIndex int
	// RootIndex marks the root of this group's parent chain.
	RootIndex int
	// Name of the group.
	Name string
}
