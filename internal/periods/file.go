package periods

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/meltforce/rowplan/internal/models"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a periods file.
type File struct {
	Periods []models.TrainingPeriod `json:"periods" yaml:"periods" toml:"periods"`
}

// LoadFile reads a periods file. The format follows the extension:
// .yaml/.yml, .toml or .json.
func LoadFile(path string) ([]models.TrainingPeriod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading periods file: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		_, err = toml.Decode(string(data), &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported periods file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing periods file: %w", err)
	}

	for i, p := range f.Periods {
		for k := range p.Distribution {
			if !k.Valid() {
				return nil, fmt.Errorf("period %d (%s): %w: %q", i+1, p.Name, ErrUnknownIntensity, k)
			}
		}
	}
	return f.Periods, nil
}

// MarshalYAML renders periods as a periods file.
func MarshalYAML(periods []models.TrainingPeriod) ([]byte, error) {
	return yaml.Marshal(File{Periods: periods})
}
