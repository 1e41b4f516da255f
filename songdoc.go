// Package songdoc is the in-memory data model of a music-composition
// document: tempo, time signature, structural sections, tracks with clips
// and notes, and the timeline math that converts between discrete tick
// positions and wall-clock time.
package songdoc

import (
	"errors"
	"fmt"
)

// DefaultResolution is the default pulses-per-quarter-note of a Song.
const DefaultResolution = 480

var (
	// ErrInvalidState is returned when an operation is attempted before a
	// required precondition holds, e.g. a tempo edit on a song whose
	// resolution is not set.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument is returned when caller-supplied data would
	// violate a document invariant. The document is left unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned by index and id lookups that have no match.
	ErrNotFound = errors.New("not found")
)

type (
	// Song is a complete composition document. It exclusively owns its
	// tempo, time signature and structure lists; tracks hold no references
	// into them and query the song by tick instead.
	//
	// Resolution is the number of ticks per quarter note (PPQ). It is fixed
	// when the song is created and must not be changed afterwards, as every
	// stored tick position is expressed in it.
	Song struct {
		Resolution     int
		Tempos         []TempoEvent         `yaml:",flow"`
		TimeSignatures []TimeSignatureEvent `yaml:",flow"`
		Structures     []StructureMarker    `yaml:",flow,omitempty"`
		Tracks         []Track              `yaml:",omitempty"`
		MasterTrack    Track
	}

	// TempoEvent is a tempo change at a tick position. Time is the wall
	// clock second of Ticks, derived from all preceding tempo segments; it
	// is maintained by the song and must never be set by callers.
	TempoEvent struct {
		Ticks int
		BPM   float64
		Time  float64
	}

	// TimeSignatureEvent is a meter change at a tick position.
	TimeSignatureEvent struct {
		Ticks       int
		Numerator   int
		Denominator int
	}
)

// NewSong returns a song with the default resolution, a 120 BPM tempo and a
// 4/4 time signature at tick 0, and a master track at 0 dB.
func NewSong() *Song {
	s, _ := NewSongWithResolution(DefaultResolution)
	return s
}

// NewSongWithResolution is NewSong with a caller-chosen PPQ.
func NewSongWithResolution(resolution int) (*Song, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidArgument, resolution)
	}
	return &Song{
		Resolution:     resolution,
		Tempos:         []TempoEvent{{Ticks: 0, BPM: 120, Time: 0}},
		TimeSignatures: []TimeSignatureEvent{{Ticks: 0, Numerator: 4, Denominator: 4}},
		MasterTrack: Track{
			UUID:   newTrackID(),
			Type:   TrackMaster,
			Volume: DBToVolumeValue(0),
		},
	}, nil
}

// LastTick returns the end tick of the last note over all tracks.
func (s *Song) LastTick() int {
	last := 0
	for i := range s.Tracks {
		if end := s.Tracks[i].EndTick(); end > last {
			last = end
		}
	}
	return last
}

// DurationSeconds returns the wall-clock duration of the song.
func (s *Song) DurationSeconds() float64 {
	return s.TickToSeconds(s.LastTick())
}

// Copy makes a deep copy of a Song.
func (s *Song) Copy() Song {
	tempos := make([]TempoEvent, len(s.Tempos))
	copy(tempos, s.Tempos)
	timeSignatures := make([]TimeSignatureEvent, len(s.TimeSignatures))
	copy(timeSignatures, s.TimeSignatures)
	structures := make([]StructureMarker, len(s.Structures))
	copy(structures, s.Structures)
	tracks := make([]Track, len(s.Tracks))
	for i := range s.Tracks {
		tracks[i] = s.Tracks[i].Copy()
	}
	return Song{
		Resolution:     s.Resolution,
		Tempos:         tempos,
		TimeSignatures: timeSignatures,
		Structures:     structures,
		Tracks:         tracks,
		MasterTrack:    s.MasterTrack.Copy(),
	}
}

// Validate checks the timeline invariants of the song: positive resolution,
// non-empty tempo and time signature lists anchored and strictly sorted by
// tick, and structure markers starting from tick 0.
func (s *Song) Validate() error {
	if s.Resolution <= 0 {
		return errors.New("resolution should be > 0")
	}
	if len(s.Tempos) == 0 {
		return errors.New("song contains no tempo events")
	}
	if s.Tempos[0].Ticks != 0 {
		return errors.New("first tempo event should be at tick 0")
	}
	for i := 0; i < len(s.Tempos)-1; i++ {
		if s.Tempos[i].Ticks >= s.Tempos[i+1].Ticks {
			return errors.New("tempo events should be strictly sorted by tick")
		}
	}
	for i := range s.Tempos {
		if s.Tempos[i].BPM <= 0 {
			return errors.New("tempo BPM should be > 0")
		}
	}
	if len(s.TimeSignatures) == 0 {
		return errors.New("song contains no time signatures")
	}
	for i := 0; i < len(s.TimeSignatures)-1; i++ {
		if s.TimeSignatures[i].Ticks >= s.TimeSignatures[i+1].Ticks {
			return errors.New("time signatures should be strictly sorted by tick")
		}
	}
	if len(s.Structures) > 0 && s.Structures[0].Tick != 0 {
		return errors.New("first structure marker should be at tick 0")
	}
	for i := 0; i < len(s.Structures)-1; i++ {
		if s.Structures[i].Tick >= s.Structures[i+1].Tick {
			return errors.New("structure markers should be strictly sorted by tick")
		}
	}
	return nil
}
