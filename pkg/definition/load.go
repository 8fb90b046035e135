package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a definition encoding.
type Format string

const (
	FormatBulk Format = "bulk"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from the file extension.
// Anything that is not YAML or JSON is read as the bulk format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatBulk
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (Definition, error) {
	var def Definition
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &def); err != nil {
			return Definition{}, fmt.Errorf("failed to parse json definition: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return Definition{}, fmt.Errorf("failed to parse yaml definition: %w", err)
		}
	default:
		return DecodeBulk(bytes.NewReader(data))
	}
	return def, nil
}

// Encode renders d in the given format.
func Encode(d Definition, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		return yaml.Marshal(d)
	default:
		var buf bytes.Buffer
		if err := EncodeBulk(&buf, d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// LoadFile reads and decodes a definition file. When the definition has no
// name, the file name without extension is used.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read definition: %w", err)
	}

	def, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}
