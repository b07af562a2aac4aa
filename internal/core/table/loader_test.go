package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "db.txt", "MCM&GECKO-A&MolarMass&\n"+
		"CH3O2&CH3(OO.)&47.03&\n"+
		"HCHO&CH2O&30.03&\n"+
		"NOTHING&{none}&0&\n")

	tbl, err := Load(path, "&")
	require.NoError(t, err)

	assert.Equal(t, []string{"MCM", "GECKO-A", "MolarMass"}, tbl.Header())
	assert.Equal(t, 3, tbl.Len())

	idx, err := tbl.ColumnIndex(model.ConventionGecko)
	require.NoError(t, err)
	assert.Equal(t, "CH3(OO.)", tbl.Cell(0, idx))

	gecko, err := tbl.Column(model.ConventionGecko)
	require.NoError(t, err)
	assert.Equal(t, []string{"CH3(OO.)", "CH2O"}, gecko, "placeholders are not part of a column")

	mass, err := tbl.Mass(1, model.ConventionMass)
	require.NoError(t, err)
	assert.InDelta(t, 30.03, mass, 1e-9)
}

func TestLoad_DefaultSeparatorAndCRLF(t *testing.T) {
	path := writeFile(t, "db.txt", "MCM&GECKO-A&\r\nA&a&\r\n\r\n")

	tbl, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestLoad_FieldCountMismatch(t *testing.T) {
	path := writeFile(t, "db.txt", "MCM&GECKO-A&MolarMass&\nA&a&1.0&\nB&b&\n")

	_, err := Load(path, "&")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFormat))

	var fe *common.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), "&")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIO))
}

func TestLoad_Empty(t *testing.T) {
	path := writeFile(t, "db.txt", "")
	_, err := Load(path, "&")
	assert.True(t, errors.Is(err, common.ErrFormat))
}

func TestCache(t *testing.T) {
	path := writeFile(t, "db.txt", "MCM&GECKO-A&\nA&a&\n")
	c := NewCache(nil)

	first, err := c.Get(path, "&")
	require.NoError(t, err)
	second, err := c.Get(path, "&")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(filepath.Join(filepath.Dir(path), "missing.txt"), "&")
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())

	c.Reset()
	assert.Zero(t, c.Len())
	third, err := c.Get(path, "&")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
