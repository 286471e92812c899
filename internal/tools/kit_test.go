package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceankit/oceankit/internal/config"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/security"
	"github.com/oceankit/oceankit/internal/table"
	"github.com/oceankit/oceankit/internal/testutil"
)

const sampleCSV = "temperature,salinity,pressure\n15.5,35.1,10.2\n16.0,35.2,10.5\n14.8,34.9,10.1\n"

// newTestIO builds IO sandboxed to a fresh temp directory.
func newTestIO(t *testing.T) (*IO, string) {
	t.Helper()

	dir := t.TempDir()
	pathVal, err := security.NewPath([]string{dir})
	require.NoError(t, err)

	io, err := NewIO(pathVal, config.Limits{
		MaxFileBytes: config.DefaultMaxFileBytes,
		MaxRows:      config.DefaultMaxRows,
		PreviewRows:  config.DefaultPreviewRows,
	}, nil, log.NewNop())
	require.NoError(t, err)
	return io, dir
}

func TestIO_ValidateInput(t *testing.T) {
	t.Parallel()

	io, dir := newTestIO(t)
	csvPath := testutil.WriteFile(t, dir, "data.csv", sampleCSV)

	t.Run("valid csv file", func(t *testing.T) {
		safe, format, terr := io.ValidateInput(csvPath)
		require.Nil(t, terr)
		assert.Equal(t, table.FormatCSV, format)
		assert.NotEmpty(t, safe)
	})

	t.Run("empty path", func(t *testing.T) {
		_, _, terr := io.ValidateInput("")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
	})

	t.Run("path outside sandbox", func(t *testing.T) {
		_, _, terr := io.ValidateInput("/etc/passwd")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeSecurity, terr.Code)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "notes.txt", "hello")
		_, _, terr := io.ValidateInput(path)
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, terr := io.ValidateInput(dir + "/absent.csv")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeNotFound, terr.Code)
	})

	t.Run("directory instead of file", func(t *testing.T) {
		testutil.WriteFile(t, dir, "sub.csv/inner.csv", sampleCSV)
		_, _, terr := io.ValidateInput(dir + "/sub.csv")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
		assert.Contains(t, terr.Message, "directory")
	})

	t.Run("file above size ceiling", func(t *testing.T) {
		smallIO, smallDir := newTestIO(t)
		smallIO.limits.MaxFileBytes = 8
		path := testutil.WriteFile(t, smallDir, "big.csv", sampleCSV)
		_, _, terr := smallIO.ValidateInput(path)
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
		assert.Contains(t, terr.Message, "ceiling")
	})
}

func TestIO_LoadTable(t *testing.T) {
	t.Parallel()

	io, dir := newTestIO(t)

	t.Run("parses csv", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "data.csv", sampleCSV)
		tab, terr := io.LoadTable(path)
		require.Nil(t, terr)
		assert.Equal(t, 3, tab.Len())
		assert.Equal(t, []string{"temperature", "salinity", "pressure"}, tab.Fields)
	})

	t.Run("binary format is refused", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "profile.nc", "not really netcdf")
		_, terr := io.LoadTable(path)
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
		assert.Contains(t, terr.Message, "delegate")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "broken.json", "{not json")
		_, terr := io.LoadTable(path)
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeIO, terr.Code)
	})
}

func TestIO_SaveTable(t *testing.T) {
	t.Parallel()

	io, dir := newTestIO(t)
	path := testutil.WriteFile(t, dir, "data.csv", sampleCSV)
	tab, terr := io.LoadTable(path)
	require.Nil(t, terr)

	t.Run("round trip through json", func(t *testing.T) {
		out := dir + "/out/data.json"
		written, terr := io.SaveTable(tab, out)
		require.Nil(t, terr)
		content := testutil.ReadFile(t, written)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(content), "["))
	})

	t.Run("empty output path", func(t *testing.T) {
		_, terr := io.SaveTable(tab, "")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
	})

	t.Run("output outside sandbox", func(t *testing.T) {
		_, terr := io.SaveTable(tab, "/no-such-root/out.csv")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeSecurity, terr.Code)
	})

	t.Run("binary output refused", func(t *testing.T) {
		_, terr := io.SaveTable(tab, dir+"/out.h5")
		require.NotNil(t, terr)
		assert.Equal(t, ErrCodeValidation, terr.Code)
	})
}
