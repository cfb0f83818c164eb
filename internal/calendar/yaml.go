package calendar

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of an event list.
type File struct {
	Events []Event `yaml:"events"`
}

// Encode writes events as YAML.
func Encode(w io.Writer, events []Event) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Events: events}); err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	return enc.Close()
}

// Decode reads events written by Encode.
func Decode(r io.Reader) ([]Event, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return f.Events, nil
}
