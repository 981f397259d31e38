package config

import (
	_ "embed"
	"os"
)

//go:embed default.yaml
var defaultYAML []byte

// read returns the file at path when it exists on disk, otherwise the
// embedded defaults.
func read(path string) ([]byte, error) {
	if path == "" {
		return defaultYAML, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultYAML, nil
	}
	return data, err
}
