package charts

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/listenlens/internal/utils"
	"gopkg.in/yaml.v3"
)

// ManifestFile is written next to the charts.
const ManifestFile = "manifest.yaml"

// Manifest records what a run rendered.
type Manifest struct {
	RunID       string           `yaml:"run_id"`
	Input       string           `yaml:"input"`
	GeneratedAt time.Time        `yaml:"generated_at"`
	Size        Size             `yaml:"size"`
	Figures     []ManifestFigure `yaml:"figures"`
}

// ManifestFigure lists the files of one figure, relative to the output directory.
type ManifestFigure struct {
	ID    string   `yaml:"id"`
	Title string   `yaml:"title"`
	Files []string `yaml:"files"`
}

// NewManifest groups outputs by figure, keeping the order of figs.
func NewManifest(runID, input string, size Size, figs []Figure, outs []Output) Manifest {
	m := Manifest{RunID: runID, Input: input, GeneratedAt: time.Now().UTC(), Size: size}
	files := map[string][]string{}
	for _, o := range outs {
		files[o.Figure] = append(files[o.Figure], filepath.Base(o.Path))
	}
	for _, f := range figs {
		m.Figures = append(m.Figures, ManifestFigure{ID: f.ID, Title: f.Title, Files: files[f.ID]})
	}
	return m
}

// WriteManifest stores m as YAML in dir and returns its path.
func WriteManifest(dir string, m Manifest) (string, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}
