package midi

import "errors"

var (
	ErrEmptyScale      = errors.New("note sequence is empty")
	ErrInvalidInterval = errors.New("tick interval must be at least 1")
)

// State is the ping-pong cursor over a Scale. The zero value points at the
// first element moving forward.
type State struct {
	Cursor   int
	Backward bool
}

// Next returns the event under the cursor and the state advanced by one
// step. Direction flips at the endpoints: cursor 0 always moves forward and
// the last index always moves backward, so the cursor stays in
// [0, len(scale)-1]. A single element scale never moves. scale must not be
// empty.
func (s State) Next(scale Scale) (NoteEvent, State) {
	event := scale[s.Cursor]
	last := len(scale) - 1
	if last == 0 {
		return event, State{}
	}

	switch s.Cursor {
	case 0:
		s.Backward = false
	case last:
		s.Backward = true
	}

	if s.Backward {
		s.Cursor--
	} else {
		s.Cursor++
	}
	return event, s
}

// Scheduler emits one event from its scale every interval blocks.
type Scheduler struct {
	scale    Scale
	interval int
	state    State
	emitted  int
}

// NewScheduler returns a scheduler positioned at the first event.
func NewScheduler(scale Scale, interval int) (*Scheduler, error) {
	if len(scale) == 0 {
		return nil, ErrEmptyScale
	}
	if interval < 1 {
		return nil, ErrInvalidInterval
	}
	return &Scheduler{
		scale:    append(Scale(nil), scale...),
		interval: interval,
	}, nil
}

// Due reports whether block is a scheduling tick.
func (s *Scheduler) Due(block int) bool {
	return block%s.interval == 0
}

// Next returns the event under the cursor and advances it. Call exactly
// once per tick.
func (s *Scheduler) Next() NoteEvent {
	event, next := s.state.Next(s.scale)
	s.state = next
	s.emitted++
	return event
}

// State returns the current cursor state.
func (s *Scheduler) State() State {
	return s.state
}

// Emitted returns how many events Next has returned.
func (s *Scheduler) Emitted() int {
	return s.emitted
}

// Interval returns the number of blocks between ticks.
func (s *Scheduler) Interval() int {
	return s.interval
}

// Len returns the scale length.
func (s *Scheduler) Len() int {
	return len(s.scale)
}
