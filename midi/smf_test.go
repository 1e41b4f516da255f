package midi

import (
	"bytes"
	"reflect"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"
)

func TestSMFRoundTrip(t *testing.T) {
	f := &File{
		TicksPerQuarter: 480,
		TempoChanges: []TempoChange{
			{Time: 0, BPM: 120},
			{Time: 960, BPM: 60},
		},
		TimeSignatureChanges: []TimeSignature{
			{Time: 0, Numerator: 4, Denominator: 4},
			{Time: 1920, Numerator: 3, Denominator: 4},
		},
		Instruments: []Instrument{{
			Program: 24,
			Name:    "Guitar",
			Notes: []Note{
				{Pitch: 60, Velocity: 100, Start: 0, End: 480},
				{Pitch: 64, Velocity: 90, Start: 480, End: 960},
			},
			ControlChanges: []ControlChange{
				{Number: 7, Value: 100, Time: 0},
				{Number: 7, Value: 64, Time: 480},
			},
		}},
	}

	var buf bytes.Buffer
	if err := WriteSMF(f, &buf); err != nil {
		t.Fatalf("WriteSMF: %v", err)
	}
	decoded, err := ReadSMF(&buf)
	if err != nil {
		t.Fatalf("ReadSMF: %v", err)
	}
	if !reflect.DeepEqual(f, decoded) {
		t.Errorf("smf round trip changed the file:\n got %+v\nwant %+v", decoded, f)
	}
}

func TestSMFRoundTripDrums(t *testing.T) {
	f := &File{
		TicksPerQuarter: 480,
		Instruments: []Instrument{{
			IsDrum: true,
			Notes:  []Note{{Pitch: 36, Velocity: 110, Start: 0, End: 120}},
		}},
	}
	var buf bytes.Buffer
	if err := WriteSMF(f, &buf); err != nil {
		t.Fatalf("WriteSMF: %v", err)
	}
	decoded, err := ReadSMF(&buf)
	if err != nil {
		t.Fatalf("ReadSMF: %v", err)
	}
	if len(decoded.Instruments) != 1 || !decoded.Instruments[0].IsDrum {
		t.Errorf("decoded instruments = %+v, want one drum instrument", decoded.Instruments)
	}
}

func TestToSMFRejectsBadResolution(t *testing.T) {
	f := &File{TicksPerQuarter: 0}
	if _, err := f.ToSMF(); err == nil {
		t.Error("ToSMF accepted a zero resolution")
	}
}

func TestFromSMFRejectsNonMetricTimeFormat(t *testing.T) {
	sm := smf.New()
	sm.TimeFormat = smf.TimeCode{FramesPerSecond: 25, SubFrames: 40}
	if _, err := FromSMF(sm); err == nil {
		t.Error("FromSMF accepted a SMPTE time format")
	}
}

func TestAdjacentNotesDoNotOverlap(t *testing.T) {
	// Two back-to-back notes on the same key: the note-off of the first
	// must precede the note-on of the second at the shared tick, or the
	// decoder would pair the events wrong.
	f := &File{
		TicksPerQuarter: 480,
		Instruments: []Instrument{{
			Notes: []Note{
				{Pitch: 60, Velocity: 100, Start: 0, End: 480},
				{Pitch: 60, Velocity: 100, Start: 480, End: 960},
			},
		}},
	}
	var buf bytes.Buffer
	if err := WriteSMF(f, &buf); err != nil {
		t.Fatalf("WriteSMF: %v", err)
	}
	decoded, err := ReadSMF(&buf)
	if err != nil {
		t.Fatalf("ReadSMF: %v", err)
	}
	notes := decoded.Instruments[0].Notes
	if len(notes) != 2 {
		t.Fatalf("note count = %d, want 2", len(notes))
	}
	if notes[0].End != 480 || notes[1].Start != 480 {
		t.Errorf("notes = %+v, want a clean split at tick 480", notes)
	}
}
