// ptstub is a tool which emits placeholder audio for every source a session
// references. By default it writes a shell script that synthesizes
// silence/sine WAVs at the session's sample rate (one invocation of `sox`
// per source), matching what a consuming DAW can run once to fill in
// missing media. With -direct it instead writes the placeholder WAV files
// itself.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"

	"ptsession"
	"ptsession/model"
)

var (
	flagRate   uint
	flagForce  bool
	flagDirect bool
)

func init() {
	flag.UintVar(&flagRate, "rate", 44100, "target sample rate to rescale the session to")
	flag.BoolVar(&flagForce, "f", false, "force overwrite of existing placeholder files")
	flag.BoolVar(&flagDirect, "direct", false, "write placeholder WAV files directly instead of a shell script")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: ptstub [OPTION]... FILE")
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

	if err := stub(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func stub(path string) error {
	s, err := ptsession.Load(path, uint32(flagRate))
	if err != nil {
		return err
	}

	knownSources := func() []*model.Source {
		var out []*model.Source
		for _, src := range s.Sources() {
			if src.Length > 0 {
				out = append(out, src)
			}
		}
		return out
	}()

	if flagDirect {
		return renderDirect(knownSources, s.SessionRate())
	}
	return writeScript(knownSources, s.SessionRate())
}

// writeScript writes a shell script to stdout that synthesizes silence/sine
// WAVs for every source with a known length, using sox.
func writeScript(sources []*model.Source, rate uint32) error {
	fmt.Println("#!/bin/sh")
	fmt.Println("set -e")
	for _, src := range sources {
		seconds := float64(src.Length) / float64(rate)
		fmt.Printf("sox -n -r %d -c 1 %q synth %.6f sine 220 vol 0.05\n", rate, src.Filename, seconds)
	}
	return nil
}

// renderDirect writes placeholder WAV files directly: a quiet sine tone
// over an otherwise silent buffer, sized to each source's known length.
func renderDirect(sources []*model.Source, rate uint32) error {
	for _, src := range sources {
		wavPath := pathutil.TrimExt(src.Filename) + ".wav"
		if !flagForce {
			exists, err := osutil.Exists(wavPath)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
		}

		if err := renderPlaceholder(wavPath, int(rate), src.Length); err != nil {
			return err
		}
	}
	return nil
}

func renderPlaceholder(wavPath string, rate int, length uint64) error {
	f, err := os.Create(wavPath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           synthesize(rate, length),
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}

// synthesize returns length samples of a quiet 220Hz sine wave, standing in
// for audio the importing DAW does not actually have access to.
func synthesize(rate int, length uint64) []int {
	const amplitude = 0.05 * math.MaxInt16
	out := make([]int, length)
	for i := range out {
		t := float64(i) / float64(rate)
		out[i] = int(amplitude * math.Sin(2*math.Pi*220*t))
	}
	return out
}
