package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

// Record kinds written by ExportJSONL.
const (
	RecordCellView = "cellview"
	RecordObject   = "object"
)

// ExportRecord is one line of a cell view export. The first record of a file
// describes the cell view; every following record is a top-level object.
type ExportRecord struct {
	Kind     string      `json:"kind"`
	ID       string      `json:"id"`
	Lib      string      `json:"lib,omitempty"`
	Cell     string      `json:"cell,omitempty"`
	View     string      `json:"view,omitempty"`
	Boundary *[4]float64 `json:"boundary,omitempty"`
	Type     string      `json:"type,omitempty"`
	Name     string      `json:"name,omitempty"`
	Layer    string      `json:"layer,omitempty"`
	BBox     *[4]float64 `json:"bbox,omitempty"`
	Master   string      `json:"master,omitempty"`
	Rod      string      `json:"rod,omitempty"`
}

func boxArray(b types.BoundingBox) *[4]float64 {
	return &[4]float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y}
}

// ExportJSONL writes a snapshot of cv to path, one JSON record per line.
// The file is replaced atomically. Returns the number of object records.
func (b *Backend) ExportJSONL(ctx context.Context, cv types.ContainerRef, path string) (int, error) {
	desc, err := b.CellView(ctx, cv)
	if err != nil {
		return 0, err
	}
	objs, err := b.Objects(ctx, cv)
	if err != nil {
		return 0, err
	}

	head := ExportRecord{Kind: RecordCellView, ID: string(desc.ID), Lib: desc.Lib, Cell: desc.Cell, View: desc.View}
	if desc.Boundary != nil {
		head.Boundary = boxArray(*desc.Boundary)
	}
	records := make([]json.RawMessage, 0, len(objs)+1)
	line, err := json.Marshal(head)
	if err != nil {
		return 0, err
	}
	records = append(records, line)
	for _, o := range objs {
		line, err := json.Marshal(ExportRecord{
			Kind:   RecordObject,
			ID:     string(o.ID),
			Type:   o.Type,
			Name:   o.Name,
			Layer:  layerString(o.Layer),
			BBox:   boxArray(o.BBox),
			Master: string(o.Master),
			Rod:    string(o.Rod),
		})
		if err != nil {
			return 0, err
		}
		records = append(records, line)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(objs), nil
}

func layerString(l types.Layer) string {
	if l.Name == "" {
		return ""
	}
	return l.String()
}

// ReadExport reads a file written by ExportJSONL. Malformed lines are skipped.
func ReadExport(path string) ([]ExportRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out []ExportRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec ExportRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return out, nil
}

// writeJSONL writes records to path through a temp file that is synced and
// renamed into place.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(what string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", what, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
