package songdoc

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ReadSong reads a song from a JSON or YAML document, trying JSON first.
func ReadSong(r io.Reader) (*Song, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading song failed: %w", err)
	}
	var song Song
	if errJSON := json.Unmarshal(b, &song); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &song); errYaml != nil {
			return nil, fmt.Errorf("unmarshaling song failed: %v / %v", errYaml, errJSON)
		}
	}
	return &song, nil
}

// WriteYAML writes the song as a YAML document.
func (s *Song) WriteYAML(w io.Writer) error {
	contents, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling song failed: %w", err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("writing song failed: %w", err)
	}
	return nil
}

// WriteJSON writes the song as a JSON document.
func (s *Song) WriteJSON(w io.Writer) error {
	contents, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling song failed: %w", err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("writing song failed: %w", err)
	}
	return nil
}
