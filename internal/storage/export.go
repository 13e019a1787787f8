package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Energies       []float64 `json:"energies"`
	Magnetizations []float64 `json:"magnetizations"`
}

// Export bundles a stored run's metadata and series as one JSON document.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		RunMetadata:    *meta,
		Energies:       series.Energies,
		Magnetizations: series.Magnetizations,
	}, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, data); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
