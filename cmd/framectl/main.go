// Command framectl loads a frame tree, converts its configured points into a
// destination frame and exports the result. Calibrated transforms can be
// saved to and restored from a sqlite snapshot store.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/coordframes/internal/config"
	"github.com/banshee-data/coordframes/internal/db"
	"github.com/banshee-data/coordframes/internal/export"
	"github.com/banshee-data/coordframes/internal/frames"
	"github.com/banshee-data/coordframes/internal/security"
	"github.com/banshee-data/coordframes/internal/version"
)

type options struct {
	configPath string
	to         string
	pruned     bool
	csvPath    string
	plotPath   string
	htmlPath   string
	dbPath     string
	save       bool
	label      string
	snapshot   string
	list       bool
	schema     bool
	version    bool
	diag       bool
	outputDir  string
}

func parseFlags(args []string, env config.Env) (*options, error) {
	fs := flag.NewFlagSet("framectl", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.configPath, "config", config.DefaultConfigPath, "Frame tree JSON file")
	fs.StringVar(&o.to, "to", "", "Destination frame (defaults to the root frame)")
	fs.BoolVar(&o.pruned, "pruned", false, "Stop the walk at the lowest common ancestor")
	fs.StringVar(&o.csvPath, "csv", "", "Write converted poses to this CSV file")
	fs.StringVar(&o.plotPath, "plot", "", "Write a path plot to this image file (.png, .svg, .pdf)")
	fs.StringVar(&o.htmlPath, "html", "", "Write an interactive chart to this HTML file")
	fs.StringVar(&o.dbPath, "db", env.DB, "Snapshot database path")
	fs.BoolVar(&o.save, "save", false, "Save the current transforms as a new snapshot")
	fs.StringVar(&o.label, "label", "", "Label for -save")
	fs.StringVar(&o.snapshot, "snapshot", "", "Overlay transforms from a snapshot ID, or 'latest'")
	fs.BoolVar(&o.list, "list", false, "List stored snapshots for this frame tree and exit")
	fs.BoolVar(&o.schema, "schema", false, "Print the snapshot store schema version and exit")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	fs.BoolVar(&o.diag, "diag", env.LogDiag, "Enable frames diagnostic logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	o.outputDir = env.OutputDir

	if o.dbPath == "" && (o.save || o.list || o.schema || o.snapshot != "") {
		return nil, errors.New("-save, -list, -schema and -snapshot require -db or FRAMECTL_DB")
	}
	return o, nil
}

func main() {
	log.SetFlags(0)

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}
	opts, err := parseFlags(os.Args[1:], env)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if err := run(opts, os.Stdout); err != nil {
		log.Fatalf("framectl: %v", err)
	}
}

func run(o *options, stdout io.Writer) error {
	if o.version {
		fmt.Fprintf(stdout, "framectl %s\n", version.String())
		return nil
	}
	if o.diag {
		frames.SetLogWriters(frames.LogWriters{Ops: os.Stderr, Diag: os.Stderr})
	}

	cfg, err := config.LoadFrameTreeConfig(o.configPath)
	if err != nil {
		return err
	}
	h, reg, err := cfg.Build()
	if err != nil {
		return err
	}
	tree := cfg.GetName()

	if o.dbPath != "" {
		store, err := db.NewDB(o.dbPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer store.Close()

		if o.schema {
			status, err := store.SchemaStatus(db.Migrations())
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, status)
			return nil
		}
		if o.list {
			return listSnapshots(store, tree, stdout)
		}
		if o.snapshot != "" {
			if err := overlaySnapshot(store, h, reg, o.snapshot, tree); err != nil {
				return err
			}
		}
		if o.save {
			snap, err := store.SaveSnapshot(tree, o.label, db.TransformsFromRegistry(h, reg))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "saved snapshot %s\n", snap.ID)
		}
	}

	dst, err := destination(h, o.to)
	if err != nil {
		return err
	}

	points, err := cfg.ResolvePoints(h)
	if err != nil {
		return err
	}

	poses := make([]export.Pose, 0, len(points))
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "FROM\tX\tY\tROT\tIN %s\n", h.Name(dst))
	for _, cp := range points {
		var out frames.Point[frames.NamedFrame]
		if o.pruned {
			out = cp.Point.InFramePruned(reg, dst)
		} else {
			out = cp.Point.InFrame(reg, dst)
		}
		x, y, rot := out.Components()
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%s\n",
			h.Name(cp.Point.Frame), x.Float64(), y.Float64(), rot.Float64(), out.Data)
		poses = append(poses, export.FromPoint(out, cp.Interpolated))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	origins := make(map[string]export.Pose, h.FrameCount())
	for _, f := range h.Frames() {
		origin := frames.NewPoint(f, 0, 0, 0).InFrame(reg, dst)
		origins[h.Name(f)] = export.FromPoint(origin, false)
	}

	if o.csvPath != "" {
		path, err := o.output(o.csvPath)
		if err != nil {
			return err
		}
		if err := writeFile(path, func(w io.Writer) error { return export.WriteCSV(w, poses) }); err != nil {
			return err
		}
		log.Printf("wrote %d poses to %s", len(poses), path)
	}
	if o.plotPath != "" {
		path, err := o.output(o.plotPath)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%s in %s", tree, h.Name(dst))
		if err := export.PlotPath(path, title, poses, origins); err != nil {
			return err
		}
		log.Printf("wrote plot to %s", path)
	}
	if o.htmlPath != "" {
		path, err := o.output(o.htmlPath)
		if err != nil {
			return err
		}
		series := splitSeries(poses, origins)
		title := fmt.Sprintf("%s in %s", tree, h.Name(dst))
		if err := writeFile(path, func(w io.Writer) error { return export.RenderHTML(w, title, series) }); err != nil {
			return err
		}
		log.Printf("wrote chart to %s", path)
	}
	return nil
}

// output places relative export paths under the configured output directory.
func (o *options) output(path string) (string, error) {
	return security.ResolveOutputPath(o.outputDir, path)
}

// destination resolves -to, falling back to the first root frame.
func destination(h *frames.NamedHierarchy, name string) (frames.NamedFrame, error) {
	if name != "" {
		f, ok := h.Lookup(name)
		if !ok {
			return 0, fmt.Errorf("unknown destination frame %q", name)
		}
		return f, nil
	}
	for _, f := range h.Frames() {
		if _, ok := h.Parent(f); !ok {
			return f, nil
		}
	}
	return 0, errors.New("frame tree has no root")
}

func overlaySnapshot(store *db.DB, h *frames.NamedHierarchy, reg *frames.Registry[frames.NamedFrame], id, tree string) error {
	var (
		snap *db.Snapshot
		err  error
	)
	if id == "latest" {
		snap, err = store.LatestSnapshot(tree)
	} else {
		snap, err = store.LoadSnapshot(id)
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshot %q: %w", id, err)
	}
	if snap.Hierarchy != tree {
		return fmt.Errorf("snapshot %s belongs to %q, not %q", snap.ID, snap.Hierarchy, tree)
	}
	if err := db.ApplySnapshot(h, reg, snap); err != nil {
		return err
	}
	log.Printf("applied snapshot %s (%d transforms)", snap.ID, len(snap.Transforms))
	return nil
}

func listSnapshots(store *db.DB, tree string, stdout io.Writer) error {
	snaps, err := store.ListSnapshots(tree)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintf(stdout, "no snapshots for %s\n", tree)
		return nil
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLABEL")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.Label)
	}
	return tw.Flush()
}

func splitSeries(poses []export.Pose, origins map[string]export.Pose) []export.Series {
	var measured, interpolated []export.Pose
	for _, p := range poses {
		if p.Interpolated {
			interpolated = append(interpolated, p)
		} else {
			measured = append(measured, p)
		}
	}
	originPoses := make([]export.Pose, 0, len(origins))
	for _, p := range origins {
		originPoses = append(originPoses, p)
	}
	return []export.Series{
		{Name: "measured", Poses: measured},
		{Name: "interpolated", Poses: interpolated},
		{Name: "frame origins", Poses: originPoses},
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
