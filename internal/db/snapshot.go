package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/coordframes/internal/frames"
	"github.com/banshee-data/coordframes/internal/units"
)

// ErrSnapshotNotFound is returned when no snapshot matches the query.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// FrameTransform is one stored registry slot.
type FrameTransform struct {
	Frame    string  `json:"frame"`
	Parent   string  `json:"parent,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Snapshot is a saved copy of a registry's transforms.
type Snapshot struct {
	ID         string           `json:"id"`
	Hierarchy  string           `json:"hierarchy"`
	Label      string           `json:"label,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	Transforms []FrameTransform `json:"transforms,omitempty"`
}

// SaveSnapshot stores transforms under a new snapshot ID.
func (db *DB) SaveSnapshot(hierarchy, label string, transforms []FrameTransform) (*Snapshot, error) {
	if hierarchy == "" {
		return nil, errors.New("hierarchy name is required")
	}
	snap := &Snapshot{
		ID:         uuid.NewString(),
		Hierarchy:  hierarchy,
		Label:      label,
		CreatedAt:  db.clock.Now().UTC(),
		Transforms: transforms,
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO frame_snapshots (snapshot_id, hierarchy, label, created_at_nanos) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.Hierarchy, snap.Label, snap.CreatedAt.UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO frame_transforms (snapshot_id, frame_index, frame_name, parent_name, x, y, rotation)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare transform insert: %w", err)
	}
	defer stmt.Close()

	for i, ft := range transforms {
		if _, err := stmt.Exec(snap.ID, i, ft.Frame, ft.Parent, ft.X, ft.Y, ft.Rotation); err != nil {
			return nil, fmt.Errorf("failed to insert transform for %q: %w", ft.Frame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot returns the snapshot with the given ID and its transforms.
func (db *DB) LoadSnapshot(id string) (*Snapshot, error) {
	snap, err := scanSnapshot(db.QueryRow(
		`SELECT snapshot_id, hierarchy, label, created_at_nanos FROM frame_snapshots WHERE snapshot_id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := db.loadTransforms(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LatestSnapshot returns the most recently saved snapshot for hierarchy.
func (db *DB) LatestSnapshot(hierarchy string) (*Snapshot, error) {
	snap, err := scanSnapshot(db.QueryRow(
		`SELECT snapshot_id, hierarchy, label, created_at_nanos FROM frame_snapshots
		 WHERE hierarchy = ? ORDER BY created_at_nanos DESC, rowid DESC LIMIT 1`, hierarchy))
	if err != nil {
		return nil, err
	}
	if err := db.loadTransforms(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListSnapshots returns snapshot headers for hierarchy, newest first.
// Transforms are not loaded.
func (db *DB) ListSnapshots(hierarchy string) ([]Snapshot, error) {
	rows, err := db.Query(
		`SELECT snapshot_id, hierarchy, label, created_at_nanos FROM frame_snapshots
		 WHERE hierarchy = ? ORDER BY created_at_nanos DESC, rowid DESC`, hierarchy)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and its transforms.
func (db *DB) DeleteSnapshot(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM frame_transforms WHERE snapshot_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete transforms: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM frame_snapshots WHERE snapshot_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	var nanos int64
	if err := row.Scan(&snap.ID, &snap.Hierarchy, &snap.Label, &nanos); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	snap.CreatedAt = time.Unix(0, nanos).UTC()
	return &snap, nil
}

func (db *DB) loadTransforms(snap *Snapshot) error {
	rows, err := db.Query(
		`SELECT frame_name, parent_name, x, y, rotation FROM frame_transforms
		 WHERE snapshot_id = ? ORDER BY frame_index`, snap.ID)
	if err != nil {
		return fmt.Errorf("failed to query transforms: %w", err)
	}
	defer rows.Close()

	snap.Transforms = snap.Transforms[:0]
	for rows.Next() {
		var ft FrameTransform
		if err := rows.Scan(&ft.Frame, &ft.Parent, &ft.X, &ft.Y, &ft.Rotation); err != nil {
			return fmt.Errorf("failed to scan transform: %w", err)
		}
		snap.Transforms = append(snap.Transforms, ft)
	}
	return rows.Err()
}

// TransformsFromRegistry flattens reg into storable rows in index order.
func TransformsFromRegistry(h *frames.NamedHierarchy, reg *frames.Registry[frames.NamedFrame]) []FrameTransform {
	entries := reg.Entries()
	out := make([]FrameTransform, len(entries))
	for i, e := range entries {
		ft := FrameTransform{
			Frame:    h.Name(e.Frame),
			X:        e.Transform.Position.X,
			Y:        e.Transform.Position.Y,
			Rotation: e.Transform.Rotation.Float64(),
		}
		if p, ok := h.Parent(e.Frame); ok {
			ft.Parent = h.Name(p)
		}
		out[i] = ft
	}
	return out
}

// ApplySnapshot writes every stored transform into reg. Each stored frame
// must exist in h with the same parent; frames absent from the snapshot keep
// their current transform.
func ApplySnapshot(h *frames.NamedHierarchy, reg *frames.Registry[frames.NamedFrame], snap *Snapshot) error {
	for _, ft := range snap.Transforms {
		f, ok := h.Lookup(ft.Frame)
		if !ok {
			return fmt.Errorf("snapshot %s: frame %q not in hierarchy", snap.ID, ft.Frame)
		}
		parent := ""
		if p, ok := h.Parent(f); ok {
			parent = h.Name(p)
		}
		if parent != ft.Parent {
			return fmt.Errorf("snapshot %s: frame %q stored under %q, hierarchy has %q",
				snap.ID, ft.Frame, ft.Parent, parent)
		}
	}
	for _, ft := range snap.Transforms {
		f, _ := h.Lookup(ft.Frame)
		reg.Set(f, frames.NewTransform(units.Meters(ft.X), units.Meters(ft.Y), units.Radians(ft.Rotation)))
	}
	return nil
}
