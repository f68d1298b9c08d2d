package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ljmd/internal/dynamo"
)

type ExportData struct {
	Run     RunMetadata     `json:"run"`
	Samples []dynamo.Sample `json:"samples"`
}

func ExportJSON(path string, meta RunMetadata, samples []dynamo.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, samples)
}

func WriteJSON(w io.Writer, meta RunMetadata, samples []dynamo.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Samples: samples})
}

func ExportCSV(path string, samples []dynamo.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, samples)
}
