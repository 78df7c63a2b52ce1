package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/sim"
)

// ExportData is the JSON shape of a finished run.
type ExportData struct {
	Plan     string             `json:"plan"`
	Frames   int                `json:"frames"`
	Stage    string             `json:"stage"`
	Unstable bool               `json:"unstable"`
	Stats    fabric.Stats       `json:"stats"`
	Metrics  map[string]float64 `json:"metrics"`
	History  []sim.Sample       `json:"history"`
	Fabric   *fabric.Snapshot   `json:"fabric"`
}

func newExportData(result *sim.Result) ExportData {
	return ExportData{
		Plan:     result.Plan,
		Frames:   result.Frames,
		Stage:    result.Stage,
		Unstable: result.Unstable,
		Stats:    result.Stats,
		Metrics:  result.Metrics,
		History:  result.History,
		Fabric:   result.Snapshot,
	}
}

func ExportJSON(path string, result *sim.Result) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteResultJSON(w, result)
	})
}

func ExportJSONStdout(result *sim.Result) error {
	return WriteResultJSON(os.Stdout, result)
}

func WriteResultJSON(w io.Writer, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(result))
}

func WriteSnapshotJSON(w io.Writer, snap *fabric.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

var intervalHeader = []string{
	"role", "material", "strain",
	"alpha_x", "alpha_y", "alpha_z",
	"omega_x", "omega_y", "omega_z",
}

// WriteSnapshotCSV writes one row per interval with both end locations.
func WriteSnapshotCSV(w io.Writer, snap *fabric.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(intervalHeader); err != nil {
		return err
	}
	for _, in := range snap.Intervals {
		alpha, omega := snap.Joints[in.Alpha], snap.Joints[in.Omega]
		row := []string{in.Role, in.Material, strconv.FormatFloat(in.Strain, 'f', 6, 64)}
		for _, v := range []float64{alpha[0], alpha[1], alpha[2], omega[0], omega[1], omega[2]} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
