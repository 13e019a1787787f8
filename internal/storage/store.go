package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ising/internal/analysis"
	"github.com/san-kum/ising/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

// ErrSeriesFormat indicates a series.csv that is not step,energy,magnetization.
var ErrSeriesFormat = errors.New("storage: malformed series file")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Rows            int                `json:"rows"`
	Cols            int                `json:"cols"`
	J               float64            `json:"j"`
	Init            string             `json:"init"`
	Seed            int64              `json:"seed"`
	Backend         string             `json:"backend"`
	Algorithm       string             `json:"algorithm"`
	Temperature     float64            `json:"temperature"`
	Equilibrate     int                `json:"equilibrate"`
	Steps           int                `json:"steps"`
	Lag             int                `json:"lag"`
	Samples         int                `json:"samples"`
	MeanClusterSize int                `json:"mean_cluster_size"`
	ElapsedSeconds  float64            `json:"elapsed_seconds"`
	Metrics         map[string]float64 `json:"metrics"`
	Thermo          *analysis.Thermo   `json:"thermo,omitempty"`
}

// Series is the recorded observable series of one run. Sample k was taken
// at production step k*Lag.
type Series struct {
	Lag            int
	Energies       []float64
	Magnetizations []float64
}

// Save writes the run's metadata and series under a fresh run directory and
// returns its id. thermo may be nil.
func (s *Store) Save(res *experiment.Result, thermo *analysis.Thermo) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", res.Config.Algorithm, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	cfg := res.Config
	meta := RunMetadata{
		ID:              runID,
		Timestamp:       now,
		Rows:            cfg.Rows,
		Cols:            cfg.Cols,
		J:               cfg.J,
		Init:            cfg.Init.String(),
		Seed:            res.Seed,
		Backend:         cfg.Backend,
		Algorithm:       cfg.Algorithm,
		Temperature:     cfg.Temperature,
		Equilibrate:     cfg.Equilibrate,
		Steps:           cfg.Steps,
		Lag:             cfg.Lag,
		Samples:         len(res.Energies),
		MeanClusterSize: res.MeanClusterSize,
		ElapsedSeconds:  res.Elapsed.Seconds(),
		Metrics:         res.Metrics,
		Thermo:          thermo,
	}

	// A run directory holds both files or does not exist.
	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), cfg.Lag, res.Energies, res.Magnetizations); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSeries(path string, lag int, energies, mags []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeSeries(f, lag, energies, mags); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeSeries(out io.Writer, lag int, energies, mags []float64) error {
	if len(energies) != len(mags) {
		return fmt.Errorf("%w: %d energies, %d magnetizations", ErrSeriesFormat, len(energies), len(mags))
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "energy", "magnetization"}); err != nil {
		return err
	}
	for i := range energies {
		row := []string{
			strconv.Itoa(i * lag),
			strconv.FormatFloat(energies[i], 'g', -1, 64),
			strconv.FormatFloat(mags[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads a run's series. The sampling lag comes from the run's
// metadata; it is inferred from the step column only when the metadata is
// unreadable.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	lag := 0
	if meta, err := s.Load(runID); err == nil && meta.Lag > 0 {
		lag = meta.Lag
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrSeriesFormat)
	}

	series := &Series{
		Lag:            max(lag, 1),
		Energies:       make([]float64, 0, len(records)-1),
		Magnetizations: make([]float64, 0, len(records)-1),
	}

	for i, record := range records[1:] {
		if len(record) != 3 {
			return nil, fmt.Errorf("%w: row %d has %d fields", ErrSeriesFormat, i+1, len(record))
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrSeriesFormat, i+1, err)
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrSeriesFormat, i+1, err)
		}
		m, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrSeriesFormat, i+1, err)
		}
		if lag == 0 && i == 1 && step > 0 {
			series.Lag = step
		}
		series.Energies = append(series.Energies, e)
		series.Magnetizations = append(series.Magnetizations, m)
	}

	return series, nil
}
