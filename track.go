package songdoc

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// TrackType tells what kind of content a track carries.
type TrackType int

const (
	TrackUnknown TrackType = iota
	TrackMIDI
	TrackAudio
	TrackAux
	TrackMaster
)

type (
	// TrackInstrument is the instrument assigned to a MIDI track, in
	// General MIDI terms.
	TrackInstrument struct {
		Program int
		IsDrum  bool `yaml:",omitempty"`
	}

	// TrackOutput routes a track's output into another track instead of the
	// master, identified by the destination track's UUID.
	TrackOutput struct {
		TrackID string
	}

	// Track is a single lane of the song: clips with notes for MIDI tracks,
	// plus mixer state (volume, pan, automation). Volume is a linear gain
	// value where 1.0 is 0 dB; Pan ranges -64..63 with 0 at center.
	Track struct {
		UUID       string
		Type       TrackType
		Rank       int
		Instrument TrackInstrument `yaml:",omitempty"`
		Volume     float64
		Pan        float64
		Clips      []Clip         `yaml:",omitempty"`
		Automation AutomationData `yaml:",omitempty"`
		Output     *TrackOutput   `yaml:",omitempty"`
	}
)

func newTrackID() string { return uuid.NewString() }

// EndTick returns the end tick of the last clip on the track, 0 if the
// track has no clips.
func (t *Track) EndTick() int {
	end := 0
	for i := range t.Clips {
		if t.Clips[i].EndTick > end {
			end = t.Clips[i].EndTick
		}
	}
	return end
}

// Copy makes a deep copy of a Track.
func (t *Track) Copy() Track {
	clips := make([]Clip, len(t.Clips))
	for i := range t.Clips {
		clips[i] = t.Clips[i].Copy()
	}
	ret := Track{
		UUID:       t.UUID,
		Type:       t.Type,
		Rank:       t.Rank,
		Instrument: t.Instrument,
		Volume:     t.Volume,
		Pan:        t.Pan,
		Clips:      clips,
		Automation: t.Automation.Copy(),
	}
	if t.Output != nil {
		output := *t.Output
		ret.Output = &output
	}
	return ret
}

// TrackCount returns the number of tracks in the song, not counting the
// master track.
func (s *Song) TrackCount() int {
	return len(s.Tracks)
}

// TrackAt returns the track at index, or nil if the index is out of range.
// The pointer stays valid until the track list is next modified.
func (s *Song) TrackAt(index int) *Track {
	if index < 0 || index >= len(s.Tracks) {
		return nil
	}
	return &s.Tracks[index]
}

// TrackByID returns the track with the given UUID, or nil.
func (s *Song) TrackByID(trackID string) *Track {
	for i := range s.Tracks {
		if s.Tracks[i].UUID == trackID {
			return &s.Tracks[i]
		}
	}
	return nil
}

// TrackIndex returns the index of the track with the given UUID, or -1.
func (s *Song) TrackIndex(trackID string) int {
	for i := range s.Tracks {
		if s.Tracks[i].UUID == trackID {
			return i
		}
	}
	return -1
}

// CreateTrack appends a new track with a fresh UUID, the next free rank and
// 0 dB volume, and returns it. The pointer stays valid until the track list
// is next modified.
func (s *Song) CreateTrack(trackType TrackType) *Track {
	s.Tracks = append(s.Tracks, Track{
		UUID:   newTrackID(),
		Type:   trackType,
		Rank:   s.NextTrackRank(),
		Volume: DBToVolumeValue(0),
	})
	return &s.Tracks[len(s.Tracks)-1]
}

// RemoveTrack removes the track with the given UUID from the song and
// returns it. Output routings of other tracks that pointed at the removed
// track are cleared.
func (s *Song) RemoveTrack(trackID string) (Track, error) {
	index := s.TrackIndex(trackID)
	if index < 0 {
		return Track{}, fmt.Errorf("%w: no track with id %q", ErrNotFound, trackID)
	}
	removed := s.Tracks[index]
	s.Tracks = slices.Delete(s.Tracks, index, index+1)
	for i := range s.Tracks {
		if out := s.Tracks[i].Output; out != nil && out.TrackID == trackID {
			s.Tracks[i].Output = nil
		}
	}
	return removed, nil
}

// CloneTrack deep-copies the track with the given UUID, inserts the clone
// next to the original with a fresh UUID and the next free rank, and
// returns it.
func (s *Song) CloneTrack(trackID string) (*Track, error) {
	index := s.TrackIndex(trackID)
	if index < 0 {
		return nil, fmt.Errorf("%w: no track with id %q", ErrNotFound, trackID)
	}
	clone := s.Tracks[index].Copy()
	clone.UUID = newTrackID()
	clone.Rank = s.NextTrackRank()
	s.Tracks = slices.Insert(s.Tracks, index, clone)
	return &s.Tracks[index], nil
}

// NextTrackRank returns one past the highest rank in use, starting at 1.
func (s *Song) NextTrackRank() int {
	rank := 0
	for i := range s.Tracks {
		if s.Tracks[i].Rank > rank {
			rank = s.Tracks[i].Rank
		}
	}
	return rank + 1
}
