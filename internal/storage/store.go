package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{
	"tick", "time", "dt",
	"x", "y", "vx", "vy", "max_vx", "max_vy", "ax", "ay",
	"size", "events",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Substeps   int                `json:"substeps"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Top        float64            `json:"top"`
	Bottom     float64            `json:"bottom"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and every frame of result under a new run directory and
// returns the run ID. ID, Timestamp, Steps and Metrics are filled in here.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(s.path(runID, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(s.path(runID, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		if err := w.Write(frameRow(f)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Latest returns the ID of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	file, err := os.Open(s.path(runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}

	frames := make([]dynamo.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func frameRow(f dynamo.Frame) []string {
	b := f.Body
	row := []string{strconv.Itoa(f.Tick)}
	for _, v := range []float64{
		f.Time, f.Dt,
		b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y,
		b.MaxVelocity.X, b.MaxVelocity.Y, b.Acceleration.X, b.Acceleration.Y,
		f.Size,
	} {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(row, strconv.Itoa(int(f.Events)))
}

func parseFrame(record []string) (dynamo.Frame, error) {
	var f dynamo.Frame

	tick, err := strconv.Atoi(record[0])
	if err != nil {
		return f, err
	}
	vals := make([]float64, 11)
	for i := range vals {
		vals[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return f, fmt.Errorf("%s: %w", frameHeader[i+1], err)
		}
	}
	events, err := strconv.ParseUint(record[12], 10, 8)
	if err != nil {
		return f, err
	}

	f.Tick = tick
	f.Time, f.Dt = vals[0], vals[1]
	f.Body = dynamo.Body{
		Position:     dynamo.Vec2{X: vals[2], Y: vals[3]},
		Velocity:     dynamo.Vec2{X: vals[4], Y: vals[5]},
		MaxVelocity:  dynamo.Vec2{X: vals[6], Y: vals[7]},
		Acceleration: dynamo.Vec2{X: vals[8], Y: vals[9]},
	}
	f.Size = vals[10]
	f.Events = dynamo.Event(events)
	return f, nil
}
