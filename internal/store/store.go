// Package store writes run artifacts to disk: the final fabric snapshot as
// JSON and CSV, and the sampled history as CSV.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/sim"
)

const (
	snapshotFile = "snapshot.json"
	historyFile  = "history.csv"
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

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes the snapshot and history of a result under runID.
func (s *Store) Save(runID string, result *sim.Result) error {
	runDir := s.Dir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	if result.Snapshot != nil {
		if err := writeFile(filepath.Join(runDir, snapshotFile), func(w io.Writer) error {
			return WriteSnapshotJSON(w, result.Snapshot)
		}); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(runDir, historyFile), func(w io.Writer) error {
		return WriteHistoryCSV(w, result.History)
	})
}

func (s *Store) LoadSnapshot(runID string) (*fabric.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), snapshotFile))
	if err != nil {
		return nil, err
	}

	var snap fabric.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) LoadHistory(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadHistoryCSV(file)
}

func (s *Store) Remove(runID string) error {
	return os.RemoveAll(s.Dir(runID))
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

var historyHeader = []string{"frame", "age", "stage", "speed", "energy", "height", "joints", "intervals"}

func WriteHistoryCSV(w io.Writer, history []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, s := range history {
		row := []string{
			strconv.Itoa(s.Frame),
			strconv.Itoa(s.Age),
			s.Stage,
			strconv.FormatFloat(s.Speed, 'g', -1, 64),
			strconv.FormatFloat(s.Energy, 'g', -1, 64),
			strconv.FormatFloat(s.Height, 'g', -1, 64),
			strconv.Itoa(s.Joints),
			strconv.Itoa(s.Intervals),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadHistoryCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(historyHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	history := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var s sim.Sample
		var errs [7]error
		s.Frame, errs[0] = strconv.Atoi(record[0])
		s.Age, errs[1] = strconv.Atoi(record[1])
		s.Stage = record[2]
		s.Speed, errs[2] = strconv.ParseFloat(record[3], 64)
		s.Energy, errs[3] = strconv.ParseFloat(record[4], 64)
		s.Height, errs[4] = strconv.ParseFloat(record[5], 64)
		s.Joints, errs[5] = strconv.Atoi(record[6])
		s.Intervals, errs[6] = strconv.Atoi(record[7])
		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("history row %d: %w", i+1, err)
			}
		}
		history = append(history, s)
	}
	return history, nil
}
