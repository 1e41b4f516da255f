package songdoc

import (
	"encoding/base64"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// The persisted document form is a compact binary encoding of the whole
// song graph. The schema is owned by the codec; callers treat the encoded
// bytes as opaque. Decoding an encoded song reproduces every tick, BPM,
// meter, marker and name exactly, including the derived tempo Time fields.

// SerializeToBytes encodes the song into its binary document form.
func (s *Song) SerializeToBytes() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serializing song failed: %w", err)
	}
	return data, nil
}

// Serialize encodes the song and wraps the binary form in base64 for
// transport as text.
func (s *Song) Serialize() (string, error) {
	data, err := s.SerializeToBytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DeserializeFromBytes decodes a song from its binary document form.
func DeserializeFromBytes(data []byte) (*Song, error) {
	var s Song
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("deserializing song failed: %w", err)
	}
	return &s, nil
}

// Deserialize decodes a song from the base64 text form produced by
// Serialize.
func Deserialize(text string) (*Song, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decoding serialized song failed: %w", err)
	}
	return DeserializeFromBytes(data)
}
