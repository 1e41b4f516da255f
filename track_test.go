package songdoc

import (
	"errors"
	"testing"
)

func TestCreateTrackAssignsIDAndRank(t *testing.T) {
	s := NewSong()
	first := s.CreateTrack(TrackMIDI)
	second := s.CreateTrack(TrackAudio)
	if first.UUID == "" || second.UUID == "" || first.UUID == second.UUID {
		t.Errorf("track uuids = %q, %q, want distinct non-empty", first.UUID, second.UUID)
	}
	if first.Rank != 1 || second.Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", first.Rank, second.Rank)
	}
	if first.Volume != DBToVolumeValue(0) {
		t.Errorf("new track volume = %v, want 0 dB", first.Volume)
	}
	if got := s.TrackCount(); got != 2 {
		t.Errorf("track count = %d, want 2", got)
	}
}

func TestTrackLookups(t *testing.T) {
	s := NewSong()
	track := s.CreateTrack(TrackMIDI)
	id := track.UUID
	if got := s.TrackByID(id); got == nil || got.UUID != id {
		t.Errorf("TrackByID(%q) = %v", id, got)
	}
	if got := s.TrackIndex(id); got != 0 {
		t.Errorf("TrackIndex = %d, want 0", got)
	}
	if got := s.TrackByID("missing"); got != nil {
		t.Errorf("TrackByID(missing) = %v, want nil", got)
	}
	if got := s.TrackAt(5); got != nil {
		t.Errorf("TrackAt(5) = %v, want nil", got)
	}
}

func TestRemoveTrackClearsOutputs(t *testing.T) {
	s := NewSong()
	bus := s.CreateTrack(TrackAux)
	busID := bus.UUID
	source := s.CreateTrack(TrackMIDI)
	source.Output = &TrackOutput{TrackID: busID}
	sourceID := source.UUID

	removed, err := s.RemoveTrack(busID)
	if err != nil {
		t.Fatalf("RemoveTrack: %v", err)
	}
	if removed.UUID != busID {
		t.Errorf("removed track uuid = %q, want %q", removed.UUID, busID)
	}
	if got := s.TrackByID(sourceID); got.Output != nil {
		t.Errorf("dependent output not cleared: %+v", got.Output)
	}
	if _, err := s.RemoveTrack(busID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing twice error = %v, want ErrNotFound", err)
	}
}

func TestCloneTrack(t *testing.T) {
	s := NewSong()
	track := s.CreateTrack(TrackMIDI)
	clip := NewClip(ClipMIDI)
	clip.StartTick, clip.EndTick = 0, 960
	clip.Notes = append(clip.Notes, Note{Pitch: 60, Velocity: 100, StartTick: 0, EndTick: 960})
	track.Clips = append(track.Clips, clip)
	id := track.UUID

	clone, err := s.CloneTrack(id)
	if err != nil {
		t.Fatalf("CloneTrack: %v", err)
	}
	if clone.UUID == id {
		t.Error("clone shares the original uuid")
	}
	if clone.Rank != 2 {
		t.Errorf("clone rank = %d, want 2", clone.Rank)
	}
	if got := s.TrackCount(); got != 2 {
		t.Fatalf("track count = %d, want 2", got)
	}
	if len(clone.Clips) != 1 || len(clone.Clips[0].Notes) != 1 {
		t.Fatalf("clone clips not copied: %+v", clone.Clips)
	}
	// Deep copy: mutating the clone must not touch the original.
	clone.Clips[0].Notes[0].Pitch = 72
	if got := s.TrackByID(id); got.Clips[0].Notes[0].Pitch != 60 {
		t.Error("clone shares note storage with the original")
	}
}

func TestLastTickAndDuration(t *testing.T) {
	s := NewSong()
	if got := s.LastTick(); got != 0 {
		t.Errorf("LastTick of empty song = %d, want 0", got)
	}
	track := s.CreateTrack(TrackMIDI)
	clip := NewClip(ClipMIDI)
	clip.StartTick, clip.EndTick = 0, 1920
	track.Clips = append(track.Clips, clip)
	if got := s.LastTick(); got != 1920 {
		t.Errorf("LastTick = %d, want 1920", got)
	}
	if got := s.DurationSeconds(); !almostEqual(got, 2.0) {
		t.Errorf("DurationSeconds = %v, want 2.0 at 120 BPM", got)
	}
}

func TestIsNoteInClip(t *testing.T) {
	tests := []struct {
		name                                   string
		noteStart, noteEnd, clipStart, clipEnd int
		want                                   bool
	}{
		{"inside", 100, 200, 0, 960, true},
		{"at bounds", 0, 960, 0, 960, true},
		{"starts early", 0, 200, 100, 960, false},
		{"ends late", 100, 1000, 0, 960, false},
		{"zero length", 100, 100, 0, 960, false},
		{"inverted", 200, 100, 0, 960, false},
	}
	for _, test := range tests {
		if got := IsNoteInClip(test.noteStart, test.noteEnd, test.clipStart, test.clipEnd); got != test.want {
			t.Errorf("%s: IsNoteInClip = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestAutomationCurve(t *testing.T) {
	var data AutomationData
	target := AutomationTarget{Type: AutomationVolume}
	curve := data.AddTarget(target)
	curve.AddPoint(0, 0.5)
	curve.AddPoint(960, 0.75)
	if got := data.ValueFor(target); got != curve {
		t.Fatal("ValueFor did not return the registered curve")
	}
	if len(curve.Points) != 2 || curve.Points[0].ID != 1 || curve.Points[1].ID != 2 {
		t.Errorf("points = %+v, want ids 1 and 2", curve.Points)
	}
	// Registering the same target again returns the existing curve.
	if again := data.AddTarget(target); again != curve || len(data.Targets) != 1 {
		t.Error("AddTarget duplicated the target")
	}
	if got := data.ValueFor(AutomationTarget{Type: AutomationPan}); got != nil {
		t.Errorf("ValueFor unregistered target = %v, want nil", got)
	}
}

func TestVolumeValueConversion(t *testing.T) {
	if got := DBToVolumeValue(0); !almostEqual(got, 1.0) {
		t.Errorf("DBToVolumeValue(0) = %v, want 1.0", got)
	}
	if got := VolumeValueToDB(DBToVolumeValue(-6)); !almostEqual(got, -6) {
		t.Errorf("round trip of -6 dB = %v", got)
	}
}
