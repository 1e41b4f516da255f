package songdoc

import "github.com/google/uuid"

// ClipType tells what kind of content a clip carries.
type ClipType int

const (
	ClipMIDI ClipType = iota
	ClipAudio
)

type (
	// Note is a single note inside a clip. StartTime and EndTime are the
	// wall-clock seconds of StartTick and EndTick at the time the note was
	// created or imported; they are convenience values, not authoritative.
	Note struct {
		Pitch     int
		Velocity  int
		StartTick int
		EndTick   int
		StartTime float64
		EndTime   float64
	}

	// Clip is a bounded region [StartTick, EndTick] on a track. Notes whose
	// span falls outside the bounds are considered trimmed and are skipped
	// on export.
	Clip struct {
		ID        string
		Type      ClipType
		StartTick int
		EndTick   int
		Notes     []Note `yaml:",omitempty"`
	}
)

// NewClip returns an empty clip of the given type with a fresh id.
func NewClip(clipType ClipType) Clip {
	return Clip{ID: uuid.NewString(), Type: clipType}
}

// Copy makes a deep copy of a Clip.
func (c *Clip) Copy() Clip {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	return Clip{
		ID:        c.ID,
		Type:      c.Type,
		StartTick: c.StartTick,
		EndTick:   c.EndTick,
		Notes:     notes,
	}
}

// IsNoteInClip reports whether a note spanning [noteStartTick, noteEndTick)
// lies within the clip bounds [clipStartTick, clipEndTick]. Zero and
// negative length notes never qualify.
func IsNoteInClip(noteStartTick, noteEndTick, clipStartTick, clipEndTick int) bool {
	return noteEndTick > noteStartTick &&
		noteStartTick >= clipStartTick &&
		noteEndTick <= clipEndTick
}
