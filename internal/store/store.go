package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/section"
)

// Store persists runs as flat numeric records: metadata.json next to
// one CSV per artifact. Nothing opaque is written, so any external
// plotting tool can consume the output directly.
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
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	System    string             `json:"system"`
	Timestamp time.Time          `json:"timestamp"`
	Params    map[string]float64 `json:"params,omitempty"`
	Plane     string             `json:"plane,omitempty"`
	Transient float64            `json:"transient,omitempty"`
	Sample    float64            `json:"sample,omitempty"`
	Diverged  []float64          `json:"diverged,omitempty"`
	Counts    map[string]int     `json:"counts,omitempty"`
}

func (s *Store) newRunDir(kind, system string) (string, string, error) {
	runID := fmt.Sprintf("%s_%s_%d", system, kind, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", "", err
	}
	return runID, runDir, nil
}

func (s *Store) writeMeta(runDir string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// SaveTrajectory writes a run directory with time and state columns.
func (s *Store) SaveTrajectory(system string, params map[string]float64, traj dynamo.Trajectory) (string, error) {
	runID, runDir, err := s.newRunDir("trajectory", system)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID: runID, Kind: "trajectory", System: system,
		Timestamp: time.Now(), Params: params,
		Counts: map[string]int{"samples": traj.Len()},
	}
	if err := s.writeMeta(runDir, meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if traj.Len() == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := range traj.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	row := make([]string, len(header))
	for i, t := range traj.Times {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, v := range traj.States[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveSection writes the interpolated crossing points of one section.
func (s *Store) SaveSection(system string, params map[string]float64, plane section.Plane, crossings []section.Crossing) (string, error) {
	runID, runDir, err := s.newRunDir("section", system)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID: runID, Kind: "section", System: system,
		Timestamp: time.Now(), Params: params,
		Plane:  describePlane(plane),
		Counts: map[string]int{"crossings": len(crossings)},
	}
	if err := s.writeMeta(runDir, meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "section.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "z"}); err != nil {
		return "", err
	}
	for _, c := range crossings {
		row := []string{strconv.FormatFloat(c.Time, 'g', -1, 64)}
		for _, v := range c.State {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveBifurcation writes the flattened (parameter, value) dataset and
// records which swept values diverged.
func (s *Store) SaveBifurcation(system string, params map[string]float64, diagram *section.Diagram) (string, error) {
	runID, runDir, err := s.newRunDir("bifurcation", system)
	if err != nil {
		return "", err
	}

	pairs := diagram.Pairs()
	meta := RunMetadata{
		ID: runID, Kind: "bifurcation", System: system,
		Timestamp: time.Now(), Params: params,
		Diverged: diagram.Diverged(),
		Counts: map[string]int{
			"values":  len(diagram.Points),
			"entries": len(pairs),
		},
	}
	if err := s.writeMeta(runDir, meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "bifurcation.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{diagram.ParamName, fmt.Sprintf("x%d", diagram.ReportCoord)}); err != nil {
		return "", err
	}
	for _, p := range pairs {
		row := []string{
			strconv.FormatFloat(p[0], 'g', -1, 64),
			strconv.FormatFloat(p[1], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns stored run metadata, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return RunMetadata{}, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return RunMetadata{}, err
	}
	return meta, nil
}

func describePlane(p section.Plane) string {
	names := []string{"x", "y", "z"}
	name := strconv.Itoa(p.Coord)
	if p.Coord < len(names) {
		name = names[p.Coord]
	}
	return fmt.Sprintf("%s=%g %s", name, p.Threshold, p.Direction)
}
