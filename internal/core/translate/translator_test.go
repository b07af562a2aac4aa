package translate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

func testTable() *model.TranslationTable {
	header := []string{"MCM", "GECKO-A", "MolarMass"}
	rows := [][]string{
		{"CH4", "CH4", "16.04"},
		{"RO2X", "CH3(OO.)", "47.03"},
		{"HCHO", "CH2O", "30.03"},
		{"GONE", "{absent}", "0"},
		{"RO2X", "CH3CH2(OO.)", "61.06"},
		{"DOT", "CH3.(OO.)", "47.03"},
		{"{legacy}", "CH3OH", "32.04"},
	}
	return model.NewTranslationTable("test.db", header, rows)
}

func TestTranslate(t *testing.T) {
	tr := NewTranslator(testTable(), model.FirstMatch, nil)

	got, err := tr.Translate("HCHO", model.ConventionMCM, model.ConventionGecko)
	require.NoError(t, err)
	assert.Equal(t, "CH2O", got)

	back, err := tr.Translate("CH2O", model.ConventionGecko, model.ConventionMCM)
	require.NoError(t, err)
	assert.Equal(t, "HCHO", back)
}

func TestTranslate_EmptyNameIsDummy(t *testing.T) {
	tr := NewTranslator(testTable(), model.FirstMatch, nil)

	got, err := tr.Translate("", model.ConventionMCM, model.ConventionGecko)
	require.NoError(t, err)
	assert.Equal(t, Dummy, got)
}

func TestTranslate_FirstAndLastMatch(t *testing.T) {
	first := NewTranslator(testTable(), model.FirstMatch, nil)
	got, err := first.Translate("RO2X", model.ConventionMCM, model.ConventionGecko)
	require.NoError(t, err)
	assert.Equal(t, "CH3(OO.)", got)

	for _, policy := range []model.MatchPolicy{model.LastMatch, model.ParseMatchPolicy("v3.2"), ""} {
		last := NewTranslator(testTable(), policy, nil)
		got, err := last.Translate("RO2X", model.ConventionMCM, model.ConventionGecko)
		require.NoError(t, err)
		assert.Equal(t, "CH3CH2(OO.)", got, "policy %q", policy)
	}
}

func TestTranslate_Miss(t *testing.T) {
	tr := NewTranslator(testTable(), model.FirstMatch, nil)

	for _, name := range []string{"NOPE", "CH", "GONE", "{legacy}"} {
		got, err := tr.Translate(name, model.ConventionMCM, model.ConventionGecko)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, common.ErrNotFound))
		assert.Empty(t, got)
	}

	assert.Equal(t, []string{"CH", "GONE", "NOPE", "{legacy}"}, tr.Misses())
}

func TestTranslate_UnknownColumn(t *testing.T) {
	tr := NewTranslator(testTable(), model.FirstMatch, nil)

	_, err := tr.Translate("CH4", model.ConventionMCM, model.Convention("SMILES"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFormat))
	assert.Empty(t, tr.Misses())
}

func TestRow(t *testing.T) {
	tr := NewTranslator(testTable(), model.LastMatch, nil)

	row, err := tr.Row("RO2X", model.ConventionMCM)
	require.NoError(t, err)
	assert.Equal(t, 4, row)

	mass, err := tr.Table.Mass(row, model.ConventionMass)
	require.NoError(t, err)
	assert.InDelta(t, 61.06, mass, 1e-9)

	_, err = tr.Row("NOPE", model.ConventionMCM)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
