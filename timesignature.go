package songdoc

import (
	"cmp"
	"fmt"
	"math/bits"
	"slices"
)

func timeSignatureTicks(e TimeSignatureEvent) int { return e.Ticks }

// TimeSignatureEventCount returns the number of meter changes in the song.
func (s *Song) TimeSignatureEventCount() int {
	return len(s.TimeSignatures)
}

// TimeSignatureEventAt returns the meter change at index, or false if the
// index is out of range.
func (s *Song) TimeSignatureEventAt(index int) (TimeSignatureEvent, bool) {
	if index < 0 || index >= len(s.TimeSignatures) {
		return TimeSignatureEvent{}, false
	}
	return s.TimeSignatures[index], true
}

// TimeSignatureEventAtTick returns the meter in effect at tick, clamping to
// the first event for ticks before it.
func (s *Song) TimeSignatureEventAtTick(tick int) TimeSignatureEvent {
	index := findFloor(s.TimeSignatures, tick, timeSignatureTicks)
	if index < 0 {
		index = 0
	}
	return s.TimeSignatures[index]
}

// CreateTimeSignature adds a meter change and returns it. An event already
// at ticks is replaced. Unlike tempo changes there is no derived field, so
// no retiming follows.
func (s *Song) CreateTimeSignature(ticks, numerator, denominator int) (TimeSignatureEvent, error) {
	if err := validateTimeSignature(ticks, numerator, denominator); err != nil {
		return TimeSignatureEvent{}, err
	}
	event := TimeSignatureEvent{Ticks: ticks, Numerator: numerator, Denominator: denominator}
	index := findCeiling(s.TimeSignatures, ticks, timeSignatureTicks)
	switch {
	case index < 0:
		s.TimeSignatures = append(s.TimeSignatures, event)
	case s.TimeSignatures[index].Ticks == ticks:
		s.TimeSignatures[index] = event
	default:
		s.TimeSignatures = slices.Insert(s.TimeSignatures, index, event)
	}
	return event, nil
}

// OverwriteTimeSignatureChanges replaces the whole time signature list with
// the given events, sorted by tick with later duplicates winning. At least
// one event is required; there is no tick-0 constraint, as lookups clamp to
// the first event anyway. On error the song is left unchanged.
func (s *Song) OverwriteTimeSignatureChanges(events []TimeSignatureEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: at least one time signature needs to be present", ErrInvalidArgument)
	}
	for _, event := range events {
		if err := validateTimeSignature(event.Ticks, event.Numerator, event.Denominator); err != nil {
			return err
		}
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b TimeSignatureEvent) int { return cmp.Compare(a.Ticks, b.Ticks) })
	deduped := sorted[:0]
	for _, event := range sorted {
		if n := len(deduped); n > 0 && deduped[n-1].Ticks == event.Ticks {
			deduped[n-1] = event
			continue
		}
		deduped = append(deduped, event)
	}
	s.TimeSignatures = deduped
	return nil
}

func validateTimeSignature(ticks, numerator, denominator int) error {
	if ticks < 0 {
		return fmt.Errorf("%w: time signature tick must be non-negative, got %d", ErrInvalidArgument, ticks)
	}
	if numerator <= 0 {
		return fmt.Errorf("%w: time signature numerator must be positive, got %d", ErrInvalidArgument, numerator)
	}
	if denominator <= 0 || bits.OnesCount(uint(denominator)) != 1 {
		return fmt.Errorf("%w: time signature denominator must be a positive power of two, got %d", ErrInvalidArgument, denominator)
	}
	return nil
}
