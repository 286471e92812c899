package tools

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/testutil"
)

func toolCtx() *ai.ToolContext {
	return &ai.ToolContext{Context: context.Background()}
}

func TestIngestToolset_LoadData(t *testing.T) {
	t.Parallel()

	io, dir := newTestIO(t)
	ts, err := NewIngestToolset(io, nil, log.NewNop())
	require.NoError(t, err)

	t.Run("loads a csv table", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "obs.csv", sampleCSV)
		res, err := ts.LoadData(toolCtx(), LoadDataInput{FilePath: path})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Equal(t, 3, res.Rows)
		assert.NotEmpty(t, res.Preview)
		assert.Equal(t, []string{"temperature", "salinity", "pressure"}, res.Data["fields"])
	})

	t.Run("binary format without delegate returns a hint", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "profile.nc", "binary")
		res, err := ts.LoadData(toolCtx(), LoadDataInput{FilePath: path})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Equal(t, true, res.Data["delegated"])
	})

	t.Run("missing file is an in-band error", func(t *testing.T) {
		res, err := ts.LoadData(toolCtx(), LoadDataInput{FilePath: dir + "/gone.csv"})
		require.NoError(t, err)
		assert.Equal(t, StatusError, res.Status)
		require.NotNil(t, res.Error)
		assert.Equal(t, ErrCodeNotFound, res.Error.Code)
	})
}

func TestIngestToolset_DescribeData(t *testing.T) {
	t.Parallel()

	io, dir := newTestIO(t)
	ts, err := NewIngestToolset(io, nil, log.NewNop())
	require.NoError(t, err)
	path := testutil.WriteFile(t, dir, "obs.csv", sampleCSV)

	t.Run("all fields", func(t *testing.T) {
		res, err := ts.DescribeData(toolCtx(), DescribeDataInput{FilePath: path})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Equal(t, 3, res.Rows)
		assert.NotNil(t, res.Data["statistics"])
	})

	t.Run("restricted field list", func(t *testing.T) {
		res, err := ts.DescribeData(toolCtx(), DescribeDataInput{FilePath: path, Fields: []string{"temperature"}})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Contains(t, res.Message, "1 fields")
	})
}

func TestIngestToolset_ConvertFormat(t *testing.T) {
	t.Parallel()

	io, dir := newTestIO(t)
	ts, err := NewIngestToolset(io, nil, log.NewNop())
	require.NoError(t, err)

	path := testutil.WriteFile(t, dir, "obs.csv", sampleCSV)
	out := dir + "/obs.json"

	res, err := ts.ConvertFormat(toolCtx(), ConvertFormatInput{FilePath: path, OutputPath: out})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, res.Files, 1)

	// The written file must parse back with the same shape.
	back, terr := io.LoadTable(res.Files[0])
	require.Nil(t, terr)
	assert.Equal(t, 3, back.Len())
	assert.ElementsMatch(t, []string{"temperature", "salinity", "pressure"}, back.Fields)

	t.Run("binary target without delegate", func(t *testing.T) {
		res, err := ts.ConvertFormat(toolCtx(), ConvertFormatInput{FilePath: path, OutputPath: dir + "/obs.nc"})
		require.NoError(t, err)
		assert.Equal(t, StatusError, res.Status)
		require.NotNil(t, res.Error)
		assert.Equal(t, ErrCodeValidation, res.Error.Code)
		assert.Contains(t, res.Error.Message, "delegate")
	})
}
