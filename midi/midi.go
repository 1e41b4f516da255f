// Package midi converts between the song document model and the MIDI
// interchange representation. The interchange side uses its own
// ticks-per-quarter resolution; conversion rescales every tick position
// into the song's resolution, so the two coordinate systems never mix.
package midi

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/tuneforge/songdoc"
)

type (
	// TempoChange is a tempo event at an interchange tick position.
	TempoChange struct {
		Time int
		BPM  float64
	}

	// TimeSignature is a meter event at an interchange tick position.
	TimeSignature struct {
		Time        int
		Numerator   int
		Denominator int
	}

	// Note is a single note in interchange ticks; End is exclusive.
	Note struct {
		Pitch    int
		Velocity int
		Start    int
		End      int
	}

	// ControlChange is a continuous-controller event (value 0..127).
	ControlChange struct {
		Number int
		Value  int
		Time   int
	}

	// Instrument is one interchange track: a program, its notes and its
	// controller events.
	Instrument struct {
		Program        int
		IsDrum         bool
		Name           string
		Notes          []Note
		ControlChanges []ControlChange
	}

	// File is a complete MIDI-like document.
	File struct {
		TicksPerQuarter      int
		TempoChanges         []TempoChange
		TimeSignatureChanges []TimeSignature
		Instruments          []Instrument
	}
)

// Controller numbers with document-level meaning.
const (
	ccVolume = 7
	ccPan    = 10
)

// ToSong imports an interchange file into a new song with the default
// resolution, rescaling every tick by the resolution ratio. Each instrument
// becomes one MIDI track with a single clip spanning its notes; an
// instrument without notes has no defined clip bounds and rejects the whole
// import. Volume and pan controllers map to static mixer values when they
// occur once and to automation curves when they occur more than once.
func ToSong(f *File) (*songdoc.Song, error) {
	if f.TicksPerQuarter <= 0 {
		return nil, fmt.Errorf("%w: ticks per quarter must be positive, got %d", songdoc.ErrInvalidArgument, f.TicksPerQuarter)
	}
	song := songdoc.NewSong()
	scale := float64(song.Resolution) / float64(f.TicksPerQuarter)
	scaleTick := func(tick int) int { return int(math.Round(float64(tick) * scale)) }

	if len(f.TempoChanges) > 0 {
		tempos := make([]songdoc.TempoEvent, 0, len(f.TempoChanges))
		for _, tc := range f.TempoChanges {
			tempos = append(tempos, songdoc.TempoEvent{Ticks: scaleTick(tc.Time), BPM: tc.BPM})
		}
		if err := song.OverwriteTempoChanges(tempos); err != nil {
			return nil, fmt.Errorf("importing tempo changes failed: %w", err)
		}
	}
	if len(f.TimeSignatureChanges) > 0 {
		timeSignatures := make([]songdoc.TimeSignatureEvent, 0, len(f.TimeSignatureChanges))
		for _, ts := range f.TimeSignatureChanges {
			timeSignatures = append(timeSignatures, songdoc.TimeSignatureEvent{
				Ticks:       scaleTick(ts.Time),
				Numerator:   ts.Numerator,
				Denominator: ts.Denominator,
			})
		}
		if err := song.OverwriteTimeSignatureChanges(timeSignatures); err != nil {
			return nil, fmt.Errorf("importing time signatures failed: %w", err)
		}
	}

	for i := range f.Instruments {
		if err := importInstrument(song, &f.Instruments[i], scaleTick); err != nil {
			return nil, fmt.Errorf("importing instrument %d failed: %w", i, err)
		}
	}
	return song, nil
}

func importInstrument(song *songdoc.Song, inst *Instrument, scaleTick func(int) int) error {
	if len(inst.Notes) == 0 {
		return fmt.Errorf("%w: instrument has no notes", songdoc.ErrInvalidArgument)
	}
	track := song.CreateTrack(songdoc.TrackMIDI)
	track.Instrument = songdoc.TrackInstrument{Program: inst.Program, IsDrum: inst.IsDrum}

	clip := songdoc.NewClip(songdoc.ClipMIDI)
	clipStart, clipEnd := math.MaxInt, 0
	for _, note := range inst.Notes {
		startTick := scaleTick(note.Start)
		endTick := scaleTick(note.End)
		clip.Notes = append(clip.Notes, songdoc.Note{
			Pitch:     note.Pitch,
			Velocity:  note.Velocity,
			StartTick: startTick,
			EndTick:   endTick,
			StartTime: song.TickToSeconds(startTick),
			EndTime:   song.TickToSeconds(endTick),
		})
		if startTick < clipStart {
			clipStart = startTick
		}
		if endTick > clipEnd {
			clipEnd = endTick
		}
	}
	clip.StartTick = clipStart
	clip.EndTick = clipEnd
	track.Clips = append(track.Clips, clip)

	var volumeCCs, panCCs []ControlChange
	for _, cc := range inst.ControlChanges {
		switch cc.Number {
		case ccVolume:
			volumeCCs = append(volumeCCs, cc)
		case ccPan:
			panCCs = append(panCCs, cc)
		}
	}

	switch {
	case len(volumeCCs) == 1:
		track.Volume = float64(volumeCCs[0].Value) / 127
	case len(volumeCCs) > 1:
		curve := track.Automation.AddTarget(songdoc.AutomationTarget{Type: songdoc.AutomationVolume})
		addControlPoints(curve, volumeCCs, scaleTick)
	default:
		// Volume data missing from the source; set it to 0 dB.
		track.Volume = songdoc.DBToVolumeValue(0)
	}

	switch {
	case len(panCCs) == 1:
		track.Pan = float64(panCCs[0].Value - 64)
	case len(panCCs) > 1:
		curve := track.Automation.AddTarget(songdoc.AutomationTarget{Type: songdoc.AutomationPan})
		addControlPoints(curve, panCCs, scaleTick)
	}
	return nil
}

func addControlPoints(curve *songdoc.AutomationValue, ccs []ControlChange, scaleTick func(int) int) {
	sorted := slices.Clone(ccs)
	slices.SortStableFunc(sorted, func(a, b ControlChange) int { return cmp.Compare(a.Time, b.Time) })
	for _, cc := range sorted {
		curve.AddPoint(scaleTick(cc.Time), float64(cc.Value)/127)
	}
}

// FromSong exports a song into the interchange representation. Ticks are
// already in the song's resolution, so no rescaling happens. Every MIDI
// track with at least one clip becomes one instrument; notes outside their
// clip's bounds are trimmed away. Automation and mixer settings are not
// exported yet, so volume and pan data does not survive a round trip.
func FromSong(song *songdoc.Song) *File {
	f := &File{TicksPerQuarter: song.Resolution}
	for _, tempo := range song.Tempos {
		f.TempoChanges = append(f.TempoChanges, TempoChange{Time: tempo.Ticks, BPM: tempo.BPM})
	}
	for _, ts := range song.TimeSignatures {
		f.TimeSignatureChanges = append(f.TimeSignatureChanges, TimeSignature{
			Time:        ts.Ticks,
			Numerator:   ts.Numerator,
			Denominator: ts.Denominator,
		})
	}
	for i := range song.Tracks {
		track := &song.Tracks[i]
		if track.Type != songdoc.TrackMIDI || len(track.Clips) == 0 {
			continue
		}
		inst := Instrument{
			Program: track.Instrument.Program,
			IsDrum:  track.Instrument.IsDrum,
			Name:    fmt.Sprintf("Track %d", track.Rank),
		}
		for _, clip := range track.Clips {
			if clip.Type != songdoc.ClipMIDI {
				continue
			}
			for _, note := range clip.Notes {
				if !songdoc.IsNoteInClip(note.StartTick, note.EndTick, clip.StartTick, clip.EndTick) {
					continue
				}
				inst.Notes = append(inst.Notes, Note{
					Pitch:    note.Pitch,
					Velocity: note.Velocity,
					Start:    note.StartTick,
					End:      note.EndTick,
				})
			}
		}
		f.Instruments = append(f.Instruments, inst)
	}
	return f
}
