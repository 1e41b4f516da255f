package songdoc

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

func tempoTicks(e TempoEvent) int { return e.Ticks }

func tempoTime(e TempoEvent) float64 { return e.Time }

func ticksPerSecond(bpm float64, resolution int) float64 {
	return bpm * float64(resolution) / 60
}

// TempoEventCount returns the number of tempo changes in the song.
func (s *Song) TempoEventCount() int {
	return len(s.Tempos)
}

// TempoEventAt returns the tempo change at index, or false if the index is
// out of range.
func (s *Song) TempoEventAt(index int) (TempoEvent, bool) {
	if index < 0 || index >= len(s.Tempos) {
		return TempoEvent{}, false
	}
	return s.Tempos[index], true
}

// TempoEventAtTick returns the tempo change in effect at tick. Ticks before
// the first event clamp to the first event; the tempo list is never empty,
// so there is always an answer.
func (s *Song) TempoEventAtTick(tick int) TempoEvent {
	index := findFloor(s.Tempos, tick, tempoTicks)
	if index < 0 {
		index = 0
	}
	return s.Tempos[index]
}

// CreateTempoChange adds a tempo change and returns it. The very first
// tempo change of a song must be at tick 0. An event already at ticks is
// replaced, so tick positions stay unique. The event's Time is computed
// from the map as it was before insertion; a full retiming pass follows.
func (s *Song) CreateTempoChange(ticks int, bpm float64) (TempoEvent, error) {
	if s.Resolution <= 0 {
		return TempoEvent{}, fmt.Errorf("%w: song resolution must be set before creating tempo changes", ErrInvalidState)
	}
	if len(s.Tempos) == 0 && ticks != 0 {
		return TempoEvent{}, fmt.Errorf("%w: the first tempo event must be at tick 0", ErrInvalidArgument)
	}
	if ticks < 0 {
		return TempoEvent{}, fmt.Errorf("%w: tempo tick must be non-negative, got %d", ErrInvalidArgument, ticks)
	}
	if bpm <= 0 {
		return TempoEvent{}, fmt.Errorf("%w: BPM must be positive, got %v", ErrInvalidArgument, bpm)
	}
	event := TempoEvent{Ticks: ticks, BPM: bpm, Time: s.TickToSeconds(ticks)}
	index := findCeiling(s.Tempos, ticks, tempoTicks)
	switch {
	case index < 0:
		s.Tempos = append(s.Tempos, event)
	case s.Tempos[index].Ticks == ticks:
		s.Tempos[index] = event
	default:
		s.Tempos = slices.Insert(s.Tempos, index, event)
	}
	s.retimeTempoEvents()
	return event, nil
}

// MoveTempoChange moves the tempo change at index to toTick. The anchor at
// index 0 never moves. Moving onto the previous or next event's tick
// deletes that neighbor, leaving a single event at the destination.
// Out-of-range indices and negative ticks are ignored.
func (s *Song) MoveTempoChange(index, toTick int) {
	if index <= 0 || index >= len(s.Tempos) || toTick < 0 {
		return
	}
	if s.Tempos[index-1].Ticks == toTick {
		s.Tempos = slices.Delete(s.Tempos, index-1, index)
		index--
	} else if index < len(s.Tempos)-1 && s.Tempos[index+1].Ticks == toTick {
		s.Tempos = slices.Delete(s.Tempos, index+1, index+2)
	}
	s.Tempos[index].Ticks = toTick
	s.retimeTempoEvents()
}

// RemoveTempoChangeAt removes the tempo change at index. The song must keep
// at least one tempo change and the tick-0 anchor cannot be removed; to
// change the starting tempo, create a new change at tick 0 instead.
func (s *Song) RemoveTempoChangeAt(index int) error {
	if len(s.Tempos) <= 1 {
		return fmt.Errorf("%w: song has to have at least one tempo change", ErrInvalidState)
	}
	if index == 0 {
		return fmt.Errorf("%w: cannot remove the first tempo change", ErrInvalidArgument)
	}
	if index < 0 || index >= len(s.Tempos) {
		return fmt.Errorf("%w: no tempo change at index %d", ErrNotFound, index)
	}
	s.Tempos = slices.Delete(s.Tempos, index, index+1)
	s.retimeTempoEvents()
	return nil
}

// OverwriteTempoChanges replaces the whole tempo map. The input must be
// non-empty and its earliest event must be at tick 0, which becomes the new
// anchor; the remaining events are re-inserted one at a time so that each
// insertion sees a consistent, progressively built map. On error the song
// is left unchanged.
func (s *Song) OverwriteTempoChanges(events []TempoEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: cannot clear all tempo events", ErrInvalidArgument)
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b TempoEvent) int { return cmp.Compare(a.Ticks, b.Ticks) })
	if sorted[0].Ticks != 0 {
		return fmt.Errorf("%w: the first tempo event needs to start from tick 0", ErrInvalidArgument)
	}
	if sorted[0].BPM <= 0 {
		return fmt.Errorf("%w: BPM must be positive, got %v", ErrInvalidArgument, sorted[0].BPM)
	}
	old := s.Tempos
	s.Tempos = []TempoEvent{{Ticks: 0, BPM: sorted[0].BPM, Time: 0}}
	for _, event := range sorted[1:] {
		if _, err := s.CreateTempoChange(event.Ticks, event.BPM); err != nil {
			s.Tempos = old
			return err
		}
	}
	s.retimeTempoEvents()
	return nil
}

// retimeTempoEvents re-establishes the derived Time fields: re-sort by tick
// (insertion should already have kept the order) and recompute each Time
// from the running tempo segment integration. Idempotent; runs after every
// tempo mutation. The ascending walk only ever reads Time values that the
// walk has already updated, as the base segment of a tick lies strictly
// before it.
func (s *Song) retimeTempoEvents() {
	slices.SortStableFunc(s.Tempos, func(a, b TempoEvent) int { return cmp.Compare(a.Ticks, b.Ticks) })
	for i := range s.Tempos {
		s.Tempos[i].Time = s.TickToSeconds(s.Tempos[i].Ticks)
	}
}

// TickToSeconds converts a tick position to wall-clock seconds using the
// tempo segment in effect before tick. Read-only; assumes the tempo map
// invariants hold.
func (s *Song) TickToSeconds(tick int) float64 {
	if tick == 0 {
		return 0
	}
	index := findStrictFloor(s.Tempos, tick, tempoTicks)
	if index < 0 {
		// No tempo before the tick; extrapolate from the first one.
		index = 0
	}
	base := s.Tempos[index]
	return base.Time + float64(tick-base.Ticks)/ticksPerSecond(base.BPM, s.Resolution)
}

// SecondsToTick is the inverse of TickToSeconds, rounding to the nearest
// tick (halves away from zero, as math.Round does).
func (s *Song) SecondsToTick(seconds float64) int {
	if seconds == 0 {
		return 0
	}
	index := findStrictFloor(s.Tempos, seconds, tempoTime)
	if index < 0 {
		index = 0
	}
	base := s.Tempos[index]
	return int(math.Round(float64(base.Ticks) + (seconds-base.Time)*ticksPerSecond(base.BPM, s.Resolution)))
}
