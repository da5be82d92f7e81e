// Package extract walks a session's block tree (and, for legacy versions,
// raw byte windows) to populate the session model: sources, audio regions,
// MIDI events, MIDI regions, audio tracks and MIDI tracks.
//
// Version behavior is collapsed to a single code path per concern,
// parameterized by a Descriptor, rather than the seven near-duplicated
// version-specific passes of the original reverse-engineered reader.
package extract

// Descriptor carries the handful of content-type codes that actually differ
// between pre-10 and 10+ sessions; every other extraction path is shared.
type Descriptor struct {
	Version   int
	BigEndian bool

	RegionList  uint16 // 0x100B (pre-10) / 0x262A (10+)
	RegionEntry uint16 // 0x1008 (pre-10) / 0x2629 (10+)

	TrackPlacement      uint16 // 0x1012 (pre-10) / 0x1054 (10+)
	PlacementPerRegion  uint16 // 0x1011 (pre-10) / 0x1052 (10+)
	PlacementList       uint16 // 0x100F (pre-10) / 0x1050 (10+)
	PlacementRecord     uint16 // 0x100E (pre-10) / 0x104F (10+)
}

// DescriptorFor returns the content-type mapping for the given version and
// endianness.
func DescriptorFor(version int, bigEndian bool) Descriptor {
	d := Descriptor{Version: version, BigEndian: bigEndian}
	if version >= 10 {
		d.RegionList = 0x262A
		d.RegionEntry = 0x2629
		d.TrackPlacement = 0x1054
		d.PlacementPerRegion = 0x1052
		d.PlacementList = 0x1050
		d.PlacementRecord = 0x104F
	} else {
		d.RegionList = 0x100B
		d.RegionEntry = 0x1008
		d.TrackPlacement = 0x1012
		d.PlacementPerRegion = 0x1011
		d.PlacementList = 0x100F
		d.PlacementRecord = 0x100E
	}
	return d
}
