package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/coordframes/internal/config"
	"github.com/banshee-data/coordframes/internal/export"
	"github.com/banshee-data/coordframes/internal/testutil"
)

const benchTree = `{
  "name": "bench",
  "length_unit": "m",
  "frames": [
    {"name": "field"},
    {"name": "robot", "parent": "field", "x": %g, "y": %g, "rotation": %g}
  ],
  "points": [
    {"frame": "robot", "x": 1, "y": 0, "rotation": 0},
    {"frame": "robot", "x": 0, "y": 0, "rotation": 0, "interpolated": true}
  ]
}`

func writeTree(t *testing.T, dir string, x, y, rot float64) string {
	t.Helper()
	path := filepath.Join(dir, "bench.json")
	data := []byte(fmt.Sprintf(benchTree, x, y, rot))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func readPoses(t *testing.T, path string) []export.Pose {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	poses, err := export.ReadCSV(f)
	require.NoError(t, err)
	return poses
}

func assertPose(t *testing.T, got export.Pose, x, y, rot float64, interpolated bool) {
	t.Helper()
	testutil.AssertNear(t, "x", got.X, x, testutil.DefaultTolerance)
	testutil.AssertNear(t, "y", got.Y, y, testutil.DefaultTolerance)
	testutil.AssertNear(t, "rotation", got.Rotation, rot, testutil.DefaultTolerance)
	assert.Equal(t, interpolated, got.Interpolated)
}

func TestParseFlags_Defaults(t *testing.T) {
	o, err := parseFlags(nil, config.Env{DB: "env.db", LogDiag: true, OutputDir: "out"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigPath, o.configPath)
	assert.Equal(t, "env.db", o.dbPath)
	assert.True(t, o.diag)
	assert.Equal(t, "out", o.outputDir)
	assert.Empty(t, o.to)
	assert.False(t, o.pruned)
}

func TestParseFlags_FlagsOverrideEnv(t *testing.T) {
	o, err := parseFlags([]string{"-db", "flag.db", "-diag=false"}, config.Env{DB: "env.db", LogDiag: true})
	require.NoError(t, err)
	assert.Equal(t, "flag.db", o.dbPath)
	assert.False(t, o.diag)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"save without db", []string{"-save"}},
		{"list without db", []string{"-list"}},
		{"schema without db", []string{"-schema"}},
		{"snapshot without db", []string{"-snapshot", "latest"}},
		{"positional", []string{"extra"}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, config.Env{})
			assert.Error(t, err)
		})
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	o := &options{outputDir: dir}

	got, err := o.output("poses.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "poses.csv"), got)

	got, err = o.output("/abs/poses.csv")
	require.NoError(t, err)
	assert.Equal(t, "/abs/poses.csv", got)

	_, err = o.output("../../poses.csv")
	assert.Error(t, err)

	o.outputDir = ""
	got, err = o.output("poses.csv")
	require.NoError(t, err)
	assert.Equal(t, "poses.csv", got)
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&options{version: true}, &out))
	assert.Contains(t, out.String(), "framectl dev")
}

func TestRun_ConvertAndExport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTree(t, dir, 2, 1, math.Pi/2)

	var out bytes.Buffer
	err := run(&options{
		configPath: cfgPath,
		csvPath:    "poses.csv",
		htmlPath:   "poses.html",
		outputDir:  dir,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "IN field")

	poses := readPoses(t, filepath.Join(dir, "poses.csv"))
	require.Len(t, poses, 2)
	assertPose(t, poses[0], 2, 2, math.Pi/2, false)
	assertPose(t, poses[1], 2, 1, math.Pi/2, true)

	html, err := os.ReadFile(filepath.Join(dir, "poses.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "bench in field")
}

func TestRun_ConvertIntoChild(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTree(t, dir, 2, 1, math.Pi/2)

	for _, pruned := range []bool{false, true} {
		var out bytes.Buffer
		csvPath := filepath.Join(dir, "robot.csv")
		require.NoError(t, run(&options{configPath: cfgPath, to: "robot", pruned: pruned, csvPath: csvPath}, &out))

		poses := readPoses(t, csvPath)
		require.Len(t, poses, 2)
		assertPose(t, poses[0], 1, 0, 0, false)
		assertPose(t, poses[1], 0, 0, 0, true)
	}
}

func TestRun_UnknownDestination(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTree(t, dir, 0, 0, 0)

	var out bytes.Buffer
	err := run(&options{configPath: cfgPath, to: "lidar"}, &out)
	assert.ErrorContains(t, err, `unknown destination frame "lidar"`)
}

func TestRun_SnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "frames.db")
	cfgPath := writeTree(t, dir, 2, 1, math.Pi/2)

	var out bytes.Buffer
	require.NoError(t, run(&options{configPath: cfgPath, dbPath: dbPath, save: true, label: "calibrated"}, &out))
	m := regexp.MustCompile(`saved snapshot (\S+)`).FindStringSubmatch(out.String())
	require.Len(t, m, 2)
	id := m[1]

	out.Reset()
	require.NoError(t, run(&options{configPath: cfgPath, dbPath: dbPath, list: true}, &out))
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "calibrated")

	// Recalibrate the file to identity, then restore from the store.
	writeTree(t, dir, 0, 0, 0)
	for _, ref := range []string{"latest", id} {
		csvPath := filepath.Join(dir, "restored.csv")
		out.Reset()
		require.NoError(t, run(&options{configPath: cfgPath, dbPath: dbPath, snapshot: ref, csvPath: csvPath}, &out))

		poses := readPoses(t, csvPath)
		require.Len(t, poses, 2)
		assertPose(t, poses[0], 2, 2, math.Pi/2, false)
	}
}

func TestRun_ListEmpty(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTree(t, dir, 0, 0, 0)

	var out bytes.Buffer
	require.NoError(t, run(&options{configPath: cfgPath, dbPath: filepath.Join(dir, "frames.db"), list: true}, &out))
	assert.Equal(t, "no snapshots for bench\n", out.String())
}

func TestRun_Schema(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTree(t, dir, 0, 0, 0)

	var out bytes.Buffer
	require.NoError(t, run(&options{configPath: cfgPath, dbPath: filepath.Join(dir, "frames.db"), schema: true}, &out))
	assert.Equal(t, "schema version 2 (latest 2)\n", out.String())
}

func TestRun_MissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTree(t, dir, 0, 0, 0)

	var out bytes.Buffer
	err := run(&options{configPath: cfgPath, dbPath: filepath.Join(dir, "frames.db"), snapshot: "latest"}, &out)
	assert.ErrorContains(t, err, "snapshot not found")
}
