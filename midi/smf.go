package midi

import (
	"fmt"
	"io"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/tuneforge/songdoc"
)

// Standard MIDI file encoding of the interchange representation. Track 0 is
// the conductor track carrying tempo and meter events; each instrument
// becomes one track of its own, drums on channel 9.

// MIDI channel 10 (zero-based 9) is reserved for drums.
const drumChannel = 9

// ReadSMF parses a standard MIDI file into the interchange representation.
func ReadSMF(r io.Reader) (*File, error) {
	sm, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("reading midi file failed: %w", err)
	}
	return FromSMF(sm)
}

// WriteSMF encodes the interchange representation as a standard MIDI file.
func WriteSMF(f *File, w io.Writer) error {
	sm, err := f.ToSMF()
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi file failed: %w", err)
	}
	return nil
}

// FromSMF converts a parsed MIDI file. Delta times are accumulated into
// absolute ticks per track; note-on/note-off pairs are matched per channel
// and key. Tracks without any notes (e.g. pure conductor tracks) contribute
// tempo and meter events but no instrument.
func FromSMF(sm *smf.SMF) (*File, error) {
	metricTicks, ok := sm.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported time format %v, expected metric ticks", songdoc.ErrInvalidArgument, sm.TimeFormat)
	}
	f := &File{TicksPerQuarter: int(metricTicks)}
	for _, track := range sm.Tracks {
		inst := Instrument{}
		type noteKey struct {
			channel, key uint8
		}
		type noteStart struct {
			tick     int
			velocity uint8
		}
		pending := make(map[noteKey]noteStart)
		tick := 0
		for _, event := range track {
			tick += int(event.Delta)
			msg := event.Message
			var bpm float64
			var channel, key, velocity, numerator, denominator, clocksPerClick, dsqpq uint8
			var name string
			switch {
			case msg.GetMetaTempo(&bpm):
				f.TempoChanges = append(f.TempoChanges, TempoChange{Time: tick, BPM: bpm})
			case msg.GetMetaTimeSig(&numerator, &denominator, &clocksPerClick, &dsqpq):
				f.TimeSignatureChanges = append(f.TimeSignatureChanges, TimeSignature{
					Time:        tick,
					Numerator:   int(numerator),
					Denominator: int(denominator),
				})
			case msg.GetMetaTrackName(&name):
				inst.Name = name
			case msg.GetProgramChange(&channel, &key):
				inst.Program = int(key)
			case msg.GetNoteStart(&channel, &key, &velocity):
				pending[noteKey{channel, key}] = noteStart{tick: tick, velocity: velocity}
				if channel == drumChannel {
					inst.IsDrum = true
				}
			case msg.GetNoteEnd(&channel, &key):
				start, ok := pending[noteKey{channel, key}]
				if !ok {
					// Note-off without a matching note-on; skip.
					continue
				}
				delete(pending, noteKey{channel, key})
				inst.Notes = append(inst.Notes, Note{
					Pitch:    int(key),
					Velocity: int(start.velocity),
					Start:    start.tick,
					End:      tick,
				})
			case msg.GetControlChange(&channel, &key, &velocity):
				inst.ControlChanges = append(inst.ControlChanges, ControlChange{
					Number: int(key),
					Value:  int(velocity),
					Time:   tick,
				})
			}
		}
		if len(inst.Notes) > 0 {
			sort.SliceStable(inst.Notes, func(i, j int) bool { return inst.Notes[i].Start < inst.Notes[j].Start })
			f.Instruments = append(f.Instruments, inst)
		}
	}
	sort.SliceStable(f.TempoChanges, func(i, j int) bool { return f.TempoChanges[i].Time < f.TempoChanges[j].Time })
	sort.SliceStable(f.TimeSignatureChanges, func(i, j int) bool {
		return f.TimeSignatureChanges[i].Time < f.TimeSignatureChanges[j].Time
	})
	return f, nil
}

// ToSMF converts the interchange representation into a format 1 MIDI file.
func (f *File) ToSMF() (*smf.SMF, error) {
	if f.TicksPerQuarter <= 0 || f.TicksPerQuarter > 32767 {
		return nil, fmt.Errorf("%w: ticks per quarter %d out of range", songdoc.ErrInvalidArgument, f.TicksPerQuarter)
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(f.TicksPerQuarter)

	var conductor []timedMessage
	for _, tc := range f.TempoChanges {
		conductor = append(conductor, timedMessage{tick: tc.Time, msg: smf.MetaTempo(tc.BPM)})
	}
	for _, ts := range f.TimeSignatureChanges {
		conductor = append(conductor, timedMessage{tick: ts.Time, msg: smf.MetaMeter(uint8(ts.Numerator), uint8(ts.Denominator))})
	}
	if err := addTrack(sm, conductor); err != nil {
		return nil, err
	}

	channel := uint8(0)
	for _, inst := range f.Instruments {
		ch := channel
		if inst.IsDrum {
			ch = drumChannel
		} else {
			channel++
			if channel == drumChannel {
				channel++
			}
			channel %= 16
		}
		var events []timedMessage
		if inst.Name != "" {
			events = append(events, timedMessage{tick: 0, order: -1, msg: smf.MetaTrackSequenceName(inst.Name)})
		}
		events = append(events, timedMessage{tick: 0, order: -1, msg: smf.Message(gomidi.ProgramChange(ch, clamp7bit(inst.Program)))})
		for _, cc := range inst.ControlChanges {
			events = append(events, timedMessage{tick: cc.Time, msg: smf.Message(gomidi.ControlChange(ch, clamp7bit(cc.Number), clamp7bit(cc.Value)))})
		}
		for _, note := range inst.Notes {
			events = append(events, timedMessage{tick: note.Start, order: 1, msg: smf.Message(gomidi.NoteOn(ch, clamp7bit(note.Pitch), clamp7bit(note.Velocity)))})
			events = append(events, timedMessage{tick: note.End, msg: smf.Message(gomidi.NoteOff(ch, clamp7bit(note.Pitch)))})
		}
		if err := addTrack(sm, events); err != nil {
			return nil, err
		}
	}
	return sm, nil
}

// timedMessage is a message at an absolute tick, before conversion to the
// delta encoding of the file. At equal ticks, lower order sorts first:
// meta and program events (-1), then note-offs (0), then note-ons (1), so
// adjacent notes on the same key never overlap.
type timedMessage struct {
	tick  int
	order int
	msg   smf.Message
}

func addTrack(sm *smf.SMF, events []timedMessage) error {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})
	var track smf.Track
	last := 0
	for _, event := range events {
		track.Add(uint32(event.tick-last), event.msg)
		last = event.tick
	}
	track.Close(0)
	if err := sm.Add(track); err != nil {
		return fmt.Errorf("adding midi track failed: %w", err)
	}
	return nil
}

func clamp7bit(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
