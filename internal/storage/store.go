// Package storage persists finished runs on disk, one directory per run
// holding metadata.json and samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ljmd/internal/dynamo"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Mode            string             `json:"mode"`
	Input           string             `json:"input"`
	N               int                `json:"n"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	Dt              float64            `json:"dt"`
	Steps           int                `json:"steps"`
	T0              float64            `json:"t0"`
	Gamma           float64            `json:"gamma"`
	ThermostatEvery int                `json:"thermostat_every"`
	BoxLength       float64            `json:"box_length"`
	RCut            float64            `json:"r_cut"`
	Images          int                `json:"images"`
	StepsTaken      int                `json:"steps_taken"`
	EnergyDrift     float64            `json:"energy_drift"`
	Metrics         map[string]float64 `json:"metrics"`
}

// NewMetadata fills the run description from params. The id and timestamp
// are assigned by Save.
func NewMetadata(mode, input string, params dynamo.Params, result *dynamo.Result) RunMetadata {
	return RunMetadata{
		Mode:            mode,
		Input:           input,
		N:               params.N,
		Seed:            params.Seed,
		Dt:              params.Dt,
		Steps:           params.Steps,
		T0:              params.T0,
		Gamma:           params.Gamma,
		ThermostatEvery: params.ThermostatEvery,
		BoxLength:       params.BoxLength,
		RCut:            params.RCut,
		Images:          params.Images,
		StepsTaken:      result.StepsTaken,
		EnergyDrift:     result.EnergyDrift,
		Metrics:         result.Metrics,
	}
}

var sampleHeader = []string{
	"step", "time", "temperature", "kinetic_energy", "potential_energy",
	"total_energy", "fx", "fy", "fz", "force_sum_norm",
}

func (s *Store) Save(meta RunMetadata, samples []dynamo.Sample) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d_%s", meta.Mode, meta.Timestamp.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteCSV writes samples with a header row. Floats keep full precision.
func WriteCSV(w io.Writer, samples []dynamo.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Step), ff(s.Time), ff(s.Temperature), ff(s.KineticEnergy),
			ff(s.PotentialEnergy), ff(s.TotalEnergy), ff(s.ForceSum.X), ff(s.ForceSum.Y),
			ff(s.ForceSum.Z), ff(s.ForceSumNorm),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Sample{}, nil
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("samples.csv row %d: %w", i+2, err)
		}

		var vals [9]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("samples.csv row %d: %w", i+2, err)
			}
		}

		samples = append(samples, dynamo.Sample{
			Step:            step,
			Time:            vals[0],
			Temperature:     vals[1],
			KineticEnergy:   vals[2],
			PotentialEnergy: vals[3],
			TotalEnergy:     vals[4],
			ForceSum:        dynamo.Vec3{X: vals[5], Y: vals[6], Z: vals[7]},
			ForceSumNorm:    vals[8],
		})
	}

	return samples, nil
}
