package midi

import (
	"fmt"
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

// LoadScaleFile reads a Standard MIDI File and returns its note-on events
// in file order. Velocity and channel come from the file.
func LoadScaleFile(path string) (Scale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MIDI file: %w", err)
	}
	defer f.Close()
	return LoadScale(f)
}

// LoadScale parses SMF data from r. Tracks are read in order and note-on
// events with zero velocity (running note-offs) are skipped.
func LoadScale(r io.Reader) (Scale, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	var scale Scale
	for _, track := range s.Tracks {
		for _, ev := range track {
			var channel, key, velocity uint8
			if ev.Message.GetNoteStart(&channel, &key, &velocity) {
				scale = append(scale, NoteOn(channel, key, velocity))
			}
		}
	}

	if len(scale) == 0 {
		return nil, fmt.Errorf("MIDI file has no note-on events: %w", ErrEmptyScale)
	}
	return scale, nil
}
