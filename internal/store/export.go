package store

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// ExportJSON streams a stored run (metadata plus raw CSV rows) as a
// single JSON document, for handing to external plotting tools.
type ExportData struct {
	Metadata RunMetadata `json:"metadata"`
	Files    []string    `json:"files"`
}

func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.LoadMetadata(runID)
	if err != nil {
		return err
	}

	runDir := filepath.Join(s.baseDir, runID)
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return err
	}

	data := ExportData{Metadata: meta}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".csv" {
			data.Files = append(data.Files, filepath.Join(runDir, e.Name()))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
