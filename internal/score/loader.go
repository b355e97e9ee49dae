package score

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML score. Unknown keys are rejected so that typos such as
// "duraton" don't silently fall back to zero.
func Parse(data []byte) (*Score, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Score
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("score is empty")
		}
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a score YAML file from the given path.
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read score file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse score YAML: %w", err)
	}

	return s, nil
}

// Marshal encodes the score as YAML.
func (s *Score) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the score as YAML to the given path.
func (s *Score) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write score file: %w", err)
	}

	return nil
}
