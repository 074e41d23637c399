package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

type ExportFrame struct {
	Tick   int     `json:"tick"`
	Time   float64 `json:"time"`
	Y      float64 `json:"y"`
	VY     float64 `json:"vy"`
	AY     float64 `json:"ay"`
	Size   float64 `json:"size"`
	Events string  `json:"events,omitempty"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

func newExportData(meta RunMetadata, frames []dynamo.Frame) ExportData {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = ExportFrame{
			Tick: f.Tick,
			Time: f.Time,
			Y:    f.Body.Position.Y,
			VY:   f.Body.Velocity.Y,
			AY:   f.Body.Acceleration.Y,
			Size: f.Size,
		}
		if f.Events != 0 {
			data.Frames[i].Events = f.Events.String()
		}
	}
	return data
}

func WriteJSON(w io.Writer, meta RunMetadata, frames []dynamo.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, frames))
}

func ExportJSON(path string, meta RunMetadata, frames []dynamo.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, frames)
}

func ExportJSONStdout(meta RunMetadata, frames []dynamo.Frame) error {
	return WriteJSON(os.Stdout, meta, frames)
}

// CopyCSV writes the raw frames file of a run to w.
func (s *Store) CopyCSV(runID string, w io.Writer) error {
	file, err := os.Open(s.path(runID, framesFile))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
