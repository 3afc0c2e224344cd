package repository

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/roster-service/internal/domain"
)

type seedFile struct {
	Collaborators []seedRecord `yaml:"collaborators"`
}

type seedRecord struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Status   string `yaml:"status"`
	Unit     string `yaml:"unit"`
	PhotoURL string `yaml:"photo_url"`
}

// LoadSeedFile reads collaborators from a YAML seed file.
func LoadSeedFile(path string) ([]domain.Collaborator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}

// ParseSeed decodes a YAML document with a top-level "collaborators" list.
func ParseSeed(r io.Reader) ([]domain.Collaborator, error) {
	var doc seedFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make([]domain.Collaborator, 0, len(doc.Collaborators))
	for i, rec := range doc.Collaborators {
		if rec.Name == "" {
			return nil, fmt.Errorf("seed entry %d: name is required", i)
		}
		out = append(out, domain.Collaborator{
			ID:       rec.ID,
			Name:     rec.Name,
			Email:    rec.Email,
			Role:     rec.Role,
			Status:   rec.Status,
			Unit:     rec.Unit,
			PhotoURL: rec.PhotoURL,
		})
	}
	return out, nil
}
