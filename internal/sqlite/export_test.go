package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

func TestExportJSONL(t *testing.T) {
	ctx := context.Background()
	b := attach(t)
	cv := openCV(t, b, "top")
	require.NoError(t, b.SetPlacementBoundary(ctx, cv, types.Box(0, 0, 20, 20)))
	rod, _ := rect(t, b, cv, types.Box(1, 1, 3, 3))
	_, db := rect(t, b, cv, types.Box(5, 5, 6, 6))
	g, err := b.CreateGroup(ctx, cv, types.Point{}, types.R0)
	require.NoError(t, err)
	require.NoError(t, b.AddToGroup(ctx, g, db))

	path := filepath.Join(t.TempDir(), "top.jsonl")
	n, err := b.ExportJSONL(ctx, cv, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := ReadExport(path)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, RecordCellView, recs[0].Kind)
	assert.Equal(t, string(cv), recs[0].ID)
	assert.Equal(t, "top", recs[0].Cell)
	assert.Equal(t, &[4]float64{0, 0, 20, 20}, recs[0].Boundary)

	assert.Equal(t, RecordObject, recs[1].Kind)
	assert.Equal(t, types.ObjectRect, recs[1].Type)
	assert.Equal(t, string(rod), recs[1].Rod)
	assert.Equal(t, "M1/drawing", recs[1].Layer)
	assert.Equal(t, &[4]float64{1, 1, 3, 3}, recs[1].BBox)

	assert.Equal(t, string(g), recs[2].ID)
	assert.Equal(t, types.ObjectFigGroup, recs[2].Type)
	assert.Empty(t, recs[2].Layer)
	assert.Equal(t, &[4]float64{5, 5, 6, 6}, recs[2].BBox)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestExportJSONLReplacesFile(t *testing.T) {
	ctx := context.Background()
	b := attach(t)
	cv := openCV(t, b, "top")
	path := filepath.Join(t.TempDir(), "top.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	n, err := b.ExportJSONL(ctx, cv, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	recs, err := ReadExport(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Boundary)
}

func TestExportJSONLUnknownCellView(t *testing.T) {
	b := attach(t)
	_, err := b.ExportJSONL(context.Background(), "missing", filepath.Join(t.TempDir(), "x.jsonl"))
	assert.ErrorIs(t, err, types.ErrContainerNotFound)
}

func TestReadExportSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"kind\":\"object\",\"id\":\"a\"}\n\nnot json\n{\"kind\":\"object\",\"id\":\"b\"}\n"), 0o644))

	recs, err := ReadExport(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1].ID)

	_, err = ReadExport(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
