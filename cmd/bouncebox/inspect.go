package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bouncebox/internal/analysis"
	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/export"
	"github.com/san-kum/bouncebox/internal/storage"
)

// loadRun resolves "latest" and loads the metadata and frames of a run.
func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	if runID == "latest" {
		id, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = id
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tINTEG\tBOUNCES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.0f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Metrics["bounces"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		pick    func(dynamo.Frame) float64
	}{
		{"height (y)", analysis.PositionY},
		{"vertical velocity (vy)", analysis.VelocityY},
		{"square size", analysis.Size},
	}
	for _, s := range series {
		graph := asciigraph.Plot(analysis.Series(frames, s.pick),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.PhasePortrait(frames)
	fmt.Printf("phase portrait: %s\n\n", meta.ID)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 24))
	fmt.Println("\nbounce section (y, vy at each bounce):")
	fmt.Println(analysis.BounceSectionToASCII(analysis.BounceSection(frames), 70, 12))

	if svgPath != "" {
		svg := export.TrajectoryToSVG(portrait.Points, 600, 600, "#ff00ff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwritten to %s\n", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.Dt <= 0 {
		return fmt.Errorf("run %s has no sample rate", meta.ID)
	}
	sampleRate := 1 / meta.Dt

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	y := analysis.Series(frames, analysis.PositionY)
	ps := analysis.PowerSpectrum(y)
	plotData := ps[:max(len(ps)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (y)"),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tDOMINANT\tPERIOD\tPOWER")
	for _, s := range []struct {
		name string
		pick func(dynamo.Frame) float64
	}{
		{"y", analysis.PositionY},
		{"vy", analysis.VelocityY},
		{"size", analysis.Size},
	} {
		hz, power := analysis.DominantFrequency(analysis.Series(frames, s.pick), sampleRate)
		period := "-"
		if hz > 0 {
			period = fmt.Sprintf("%.3fs", 1/hz)
		}
		fmt.Fprintf(w, "%s\t%.4f Hz\t%s\t%.3g\n", s.name, hz, period, power)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID := args[0]
	if runID == "latest" {
		id, err := st.Latest()
		if err != nil {
			return err
		}
		runID = id
	}

	if outPath == "" {
		return st.CopyCSV(runID, os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := st.CopyCSV(runID, f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.ExportJSONStdout(*meta, frames)
	}
	if err := storage.ExportJSON(outPath, *meta, frames); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}
