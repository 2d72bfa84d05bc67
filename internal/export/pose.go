// Package export writes converted poses out for downstream tools: CSV pose
// files, PNG path plots and interactive HTML charts.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/coordframes/internal/frames"
)

// Pose is a flattened (x, y, rotation) triple ready for export.
// Interpolated marks poses generated between measured waypoints.
type Pose struct {
	X            float64
	Y            float64
	Rotation     float64
	Interpolated bool
}

// FromPoint flattens a frame point. The frame tag is dropped; callers
// convert every point into one frame before exporting.
func FromPoint[F comparable](p frames.Point[F], interpolated bool) Pose {
	x, y, rot := p.Components()
	return Pose{X: x.Float64(), Y: y.Float64(), Rotation: rot.Float64(), Interpolated: interpolated}
}

var csvHeader = []string{"x", "y", "rotation", "interpolated"}

// WriteCSV writes poses with a header row.
func WriteCSV(w io.Writer, poses []Pose) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range poses {
		rec := []string{
			strconv.FormatFloat(p.X, 'f', -1, 64),
			strconv.FormatFloat(p.Y, 'f', -1, 64),
			strconv.FormatFloat(p.Rotation, 'f', -1, 64),
			strconv.FormatBool(p.Interpolated),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write pose: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV. The interpolated column is
// optional and accepts the usual truthy spellings.
func ReadCSV(r io.Reader) ([]Pose, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty pose file")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 3 || strings.TrimSpace(header[0]) != "x" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var poses []Pose
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("line %d: want at least 3 fields, got %d", line, len(rec))
		}
		var vals [3]float64
		for i := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s '%s': %w", line, csvHeader[i], rec[i], err)
			}
			vals[i] = v
		}
		p := Pose{X: vals[0], Y: vals[1], Rotation: vals[2]}
		if len(rec) > 3 {
			p.Interpolated = truthy(rec[3])
		}
		poses = append(poses, p)
	}
	return poses, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "y", "yes", "1":
		return true
	}
	return false
}
