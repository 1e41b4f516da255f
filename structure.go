package songdoc

import (
	"cmp"
	"slices"
)

// StructureType labels a section of the song.
type StructureType int

const (
	StructureUnknown StructureType = iota
	StructureIntro
	StructureVerse
	StructurePreChorus
	StructureChorus
	StructureBridge
	StructureOutro
	StructureFill
	StructureSolo
	StructureBreakdown
)

var structureTypeNames = map[StructureType]string{
	StructureUnknown:   "Unknown",
	StructureIntro:     "Intro",
	StructureVerse:     "Verse",
	StructurePreChorus: "Pre-Chorus",
	StructureChorus:    "Chorus",
	StructureBridge:    "Bridge",
	StructureOutro:     "Outro",
	StructureFill:      "Fill",
	StructureSolo:      "Solo",
	StructureBreakdown: "Breakdown",
}

func (t StructureType) String() string {
	if name, ok := structureTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// StructureMarker marks the start of a section. A non-empty structure list
// always begins with a marker at tick 0.
type StructureMarker struct {
	Tick       int
	Type       StructureType
	CustomName string `yaml:",omitempty"`
}

// Name returns the custom name if set, the section type name otherwise.
func (m StructureMarker) Name() string {
	if m.CustomName != "" {
		return m.CustomName
	}
	return m.Type.String()
}

func structureTick(m StructureMarker) int { return m.Tick }

// StructureCount returns the number of structure markers in the song.
func (s *Song) StructureCount() int {
	return len(s.Structures)
}

// StructureAtIndex returns the marker at index, or false if the index is
// out of range.
func (s *Song) StructureAtIndex(index int) (StructureMarker, bool) {
	if index < 0 || index >= len(s.Structures) {
		return StructureMarker{}, false
	}
	return s.Structures[index], true
}

// StructureAtTick returns the section in effect at tick, clamping to the
// first marker for earlier ticks, or false if the song has no structure.
func (s *Song) StructureAtTick(tick int) (StructureMarker, bool) {
	if len(s.Structures) == 0 {
		return StructureMarker{}, false
	}
	index := findFloor(s.Structures, tick, structureTick)
	if index < 0 {
		index = 0
	}
	return s.Structures[index], true
}

// CreateStructure adds a section marker, keeping the list ordered by tick.
// A marker already at tick is replaced. The sole marker of a song is forced
// to tick 0: once non-empty, the structure timeline originates at 0.
// customName may be empty to use the type's display name. Negative ticks
// clamp to 0.
func (s *Song) CreateStructure(tick int, structureType StructureType, customName string) StructureMarker {
	if tick < 0 {
		tick = 0
	}
	marker := StructureMarker{Tick: tick, Type: structureType, CustomName: customName}
	if len(s.Structures) == 0 {
		marker.Tick = 0
		s.Structures = append(s.Structures, marker)
		return marker
	}
	index := findCeiling(s.Structures, tick, structureTick)
	switch {
	case index < 0:
		s.Structures = append(s.Structures, marker)
	case s.Structures[index].Tick == tick:
		s.Structures[index] = marker
	default:
		s.Structures = slices.Insert(s.Structures, index, marker)
	}
	return marker
}

// MoveStructure moves the marker at index to toTick. The marker at index 0
// never moves. Moving onto the previous or next marker's tick deletes that
// neighbor, leaving a single marker at the destination. Out-of-range
// indices and negative ticks are ignored.
func (s *Song) MoveStructure(index, toTick int) {
	if index <= 0 || index >= len(s.Structures) || toTick < 0 {
		return
	}
	if s.Structures[index-1].Tick == toTick {
		s.Structures = slices.Delete(s.Structures, index-1, index)
		index--
	} else if index < len(s.Structures)-1 && s.Structures[index+1].Tick == toTick {
		s.Structures = slices.Delete(s.Structures, index+1, index+2)
	}
	s.Structures[index].Tick = toTick
	slices.SortStableFunc(s.Structures, func(a, b StructureMarker) int { return cmp.Compare(a.Tick, b.Tick) })
}

// UpdateStructureAtTick changes the type of the marker exactly at tick, or
// creates a new marker there if none exists.
func (s *Song) UpdateStructureAtTick(tick int, structureType StructureType) {
	index := findFloor(s.Structures, tick, structureTick)
	if index >= 0 && s.Structures[index].Tick == tick {
		s.Structures[index].Type = structureType
		return
	}
	s.CreateStructure(tick, structureType, "")
}

// RemoveStructure removes the marker at index. Removing the first marker is
// allowed; if markers remain and the new first marker is not at tick 0, it
// is rewritten to 0 so the timeline still originates at the start.
// Out-of-range indices are ignored.
func (s *Song) RemoveStructure(index int) {
	if index < 0 || index >= len(s.Structures) {
		return
	}
	s.Structures = slices.Delete(s.Structures, index, index+1)
	if len(s.Structures) > 0 && s.Structures[0].Tick > 0 {
		s.Structures[0].Tick = 0
	}
}
