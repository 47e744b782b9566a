package job

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a job file. The format follows the extension: .yaml, .yml or
// .toml. Unknown keys are rejected.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse job yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse job toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, ext)
	}

	f.dir = filepath.Dir(path)
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Figures) == 0 {
		return fmt.Errorf("%w: no figures", ErrInvalidJob)
	}
	seen := make(map[string]bool, len(f.Figures))
	for _, fig := range f.Figures {
		if err := fig.validate(); err != nil {
			return err
		}
		if seen[fig.Name] {
			return fmt.Errorf("%w: duplicate figure name %q", ErrInvalidJob, fig.Name)
		}
		seen[fig.Name] = true
	}
	return nil
}

// resolve makes p relative to the job file's directory.
func (f *File) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

// DataFiles returns the distinct data files the job reads.
func (f *File) DataFiles() []string {
	var out []string
	seen := make(map[string]bool)
	for _, fig := range f.Figures {
		p := f.resolve(fig.Data.Path)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
