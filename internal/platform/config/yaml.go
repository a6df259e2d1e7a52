package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path into out. Unknown keys are rejected
// so a typo in a profile fails loudly instead of silently using defaults
func LoadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// MayYAML loads the file named by key into out when the key is set.
// It reports whether a file was loaded
func (c Conf) MayYAML(key string, out any) (bool, error) {
	path := c.MayString(key, "")
	if path == "" {
		return false, nil
	}
	if err := LoadYAML(path, out); err != nil {
		return false, err
	}
	return true, nil
}
