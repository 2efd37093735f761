package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadOptions controls ingestion.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet; SheetIndex (1-based) is used when it is empty.
	SheetName  string
	SheetIndex int
}

// Loader reads one file format into a Table.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// fallback reads files no registered loader claims.
var fallback Loader = csvLoader{}

// Register adds a loader. Later registrations take precedence.
func Register(l Loader) {
	registry = append([]Loader{l}, registry...)
}

// Load selects a loader by file name and reads the dataset. Names no loader
// claims are read as comma-separated text.
func Load(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	l := fallback
	for _, r := range registry {
		if r.CanLoad(path) {
			l = r
			break
		}
	}
	t, err := l.Load(path, opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
