// ptdump is a tool which prints the structural model recovered from a
// session file: sources, regions, MIDI regions and events, and tracks.
package main

import (
	"flag"
	"fmt"
	"os"

	"ptsession"
	"ptsession/model"
)

// flagRate is the target sample rate every timeline value is rescaled to.
var flagRate uint

func init() {
	flag.UintVar(&flagRate, "rate", 44100, "target sample rate to rescale the session to")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: ptdump [OPTION]... FILE")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	if err := dump(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func dump(path string) error {
	s, err := ptsession.Load(path, uint32(flagRate))
	if err != nil {
		return err
	}

	fmt.Printf("version: %d\n", s.Version())
	fmt.Printf("session rate: %d\n", s.SessionRate())

	fmt.Println("sources:")
	for _, src := range s.Sources() {
		listSource(src)
	}

	fmt.Println("audio regions:")
	for _, r := range s.AudioRegions() {
		listRegion(r)
	}

	fmt.Println("midi regions:")
	for _, r := range s.MIDIRegions() {
		listRegion(r)
		for _, ev := range r.Events {
			listMIDIEvent(ev)
		}
	}

	fmt.Println("audio tracks:")
	for _, t := range s.AudioTracks() {
		listTrack(t)
	}

	fmt.Println("midi tracks:")
	for _, t := range s.MIDITracks() {
		listTrack(t)
	}

	if compounds := s.Compounds(); len(compounds) > 0 {
		fmt.Println("compounds:")
		for _, c := range compounds {
			listCompound(c)
		}
	}

	return nil
}

func listSource(src *model.Source) {
	fmt.Printf("  #%d %q length=%d\n", src.Index, src.Filename, src.Length)
}

func listRegion(r *model.Region) {
	name := "<unresolved>"
	if r.Source != nil && !r.Source.Unresolved() {
		name = r.Source.Filename
	} else if r.IsMIDI() {
		name = "<midi>"
	}
	fmt.Printf("  #%d %q startpos=%d sampleoffset=%d length=%d source=%s\n",
		r.Index, r.Name, r.StartPos, r.SampleOffset, r.Length, name)
}

func listMIDIEvent(ev model.MIDIEvent) {
	fmt.Printf("    pos=%d length=%d note=%d velocity=%d\n", ev.Pos, ev.Length, ev.Note, ev.Velocity)
}

func listTrack(t *model.Track) {
	regionName := "<none>"
	if t.Region != nil {
		regionName = t.Region.Name
	}
	fmt.Printf("  #%d %q region=%s\n", t.Index, t.Name, regionName)
}

func listCompound(c *model.Compound) {
	fmt.Printf("  #%d %q level=%d next=%d root=%d\n", c.Index, c.Name, c.Level, c.NextIndex, c.RootIndex)
}
