// Package midi builds the note-on sequence a render session plays and
// schedules it across processing blocks.
package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoteEvent is a single note-on delivered to the plugin at Offset frames
// into the current block. Values are immutable once constructed.
type NoteEvent struct {
	Status   uint8 // 0x90 | channel
	Pitch    uint8 // 0-127
	Velocity uint8 // 0-127
	Offset   int32 // frame offset within the block
}

// NoteOn constructs a note-on event at frame offset 0. Out of range
// arguments are masked to their 4 and 7 bit fields.
func NoteOn(channel, pitch, velocity uint8) NoteEvent {
	msg := gomidi.NoteOn(channel&0x0F, pitch&0x7F, velocity&0x7F)
	return NoteEvent{
		Status:   msg[0],
		Pitch:    msg[1],
		Velocity: msg[2],
	}
}

// Channel returns the zero based MIDI channel in the status byte.
func (e NoteEvent) Channel() uint8 {
	return e.Status & 0x0F
}

// Bytes returns the three raw MIDI bytes.
func (e NoteEvent) Bytes() [3]byte {
	return [3]byte{e.Status, e.Pitch, e.Velocity}
}

// Message returns the event as a gomidi message.
func (e NoteEvent) Message() gomidi.Message {
	return gomidi.Message{e.Status, e.Pitch, e.Velocity}
}

func (e NoteEvent) String() string {
	return fmt.Sprintf("%s offset: %d", e.Message().String(), e.Offset)
}

// Scale is the fixed, ordered sequence of events a session cycles through.
type Scale []NoteEvent

// NewScale builds one note-on per pitch on channel with a shared velocity.
func NewScale(channel, velocity uint8, pitches []int) Scale {
	scale := make(Scale, 0, len(pitches))
	for _, p := range pitches {
		scale = append(scale, NoteOn(channel, uint8(p), velocity))
	}
	return scale
}

// Pitches returns the pitch of every event in order.
func (s Scale) Pitches() []int {
	out := make([]int, len(s))
	for i, e := range s {
		out[i] = int(e.Pitch)
	}
	return out
}
