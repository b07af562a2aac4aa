package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agenthands/mechcheck/internal/config"
	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	dbFixture = `MCM&GECKO-A&MolarMass&
CH4&CH4&16.04&
CH3O2&CH3(OO.)&47.03&
C2H5O2&CH3CH2(OO.)&61.06&
HCHO&CH2O&30.03&
NEWRO2&CH2(OH)(OO.)&63.03&
`
	kppFixture = `#DEFVAR
CH4 = IGNORE ;
CH3O2 = IGNORE ;
C2H5O2 = IGNORE ;
HCHO = IGNORE ;
NEWRO2 = IGNORE ;
XYZ = IGNORE ;
#INLINE F90_RCONST
 RO2 = C(ind_CH3O2) + C(ind_C2H5O2) + &
       C(ind_HOCH2O2)
#ENDINLINE
`
	facFixture = `VARIABLE
 CH4 CH3O2 C2H5O2 HCHO NEWRO2 ;
RO2 = CH3O2 + C2H5O2 + HOCH2O2 ;
`
)

func fixtureVersion(t *testing.T, name string) config.VersionConfig {
	t.Helper()
	dir := t.TempDir()
	for file, content := range map[string]string{
		"mcm.db":  dbFixture,
		"mcm.kpp": kppFixture,
		"mcm.fac": facFixture,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
	}
	v := config.VersionConfig{
		Name:        name,
		Folder:      dir,
		Database:    "mcm.db",
		Mechanism:   "mcm.kpp",
		Description: "mcm.fac",
		MatchPolicy: "first-match",
	}
	v.ApplyDefaults()
	return v
}

type mockSink struct {
	published [][]*model.VersionResult
	err       error
}

func (m *mockSink) Publish(ctx context.Context, results []*model.VersionResult) error {
	m.published = append(m.published, results)
	return m.err
}

func newTestChecker(sinks ...Sink) *Checker {
	c := NewChecker(nil, nil, sinks...)
	n := 0
	c.RunIDGenerator = func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
	return c
}

func TestRun(t *testing.T) {
	c := newTestChecker()
	v := fixtureVersion(t, "v3.3.1")

	res, err := c.Run(context.Background(), v)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, []string{"CH4", "CH3O2", "C2H5O2", "HCHO", "NEWRO2", "XYZ"}, res.Species)
	assert.Equal(t, []string{"CH3O2", "C2H5O2", "NEWRO2"}, res.ClassifiedRO2)
	assert.Equal(t, []string{"CH3O2", "C2H5O2", "HOCH2O2"}, res.DeclaredRO2)
	assert.Equal(t, []string{"XYZ"}, res.TranslationMisses)

	summation, ok := res.Conflict(model.CategoryRO2Summation)
	require.True(t, ok)
	assert.Equal(t, []string{"NEWRO2"}, summation.Missing)
	assert.Equal(t, []string{"HOCH2O2"}, summation.Extra)

	db, ok := res.Conflict(model.CategoryDatabase)
	require.True(t, ok)
	assert.Equal(t, []string{"XYZ"}, db.Missing)

	require.NotNil(t, res.Description)
	assert.True(t, res.Description.SpeciesDiffer)
	assert.False(t, res.Description.RO2Differ)

	descSpecies, ok := res.Conflict(model.CategoryDescriptionSpecies)
	require.True(t, ok)
	assert.Equal(t, []string{"XYZ"}, descSpecies.Missing)
	assert.Empty(t, descSpecies.Extra)

	_, ok = res.Conflict(model.CategoryDescriptionRO2)
	assert.False(t, ok, "RO2 lists agree so no comparison is recorded")

	assert.Equal(t, 4, res.ConflictCount())
}

func TestRun_DescriptionRO2Differs(t *testing.T) {
	c := newTestChecker()
	v := fixtureVersion(t, "v3.3.1")
	fac := "VARIABLE\n CH4 CH3O2 C2H5O2 HCHO NEWRO2 XYZ ;\nRO2 = CH3O2 +\n NEWRO2 ;\n"
	require.NoError(t, os.WriteFile(v.Path(v.Description), []byte(fac), 0o644))

	res, err := c.Run(context.Background(), v)
	require.NoError(t, err)

	require.NotNil(t, res.Description)
	assert.False(t, res.Description.SpeciesDiffer)
	assert.True(t, res.Description.RO2Differ)

	_, ok := res.Conflict(model.CategoryDescriptionSpecies)
	assert.False(t, ok)

	descRO2, ok := res.Conflict(model.CategoryDescriptionRO2)
	require.True(t, ok)
	assert.Equal(t, []string{"C2H5O2", "HOCH2O2"}, descRO2.Missing)
	assert.Equal(t, []string{"NEWRO2"}, descRO2.Extra)
}

func TestRun_ScanMode(t *testing.T) {
	c := newTestChecker()
	v := fixtureVersion(t, "v3.2")
	mech := "{ species without a DEFVAR section }\nCH4 = IGNORE ;\n#EQUATIONS\nCH3O2 = IGNORE ;\nHCHO = Ignore ;\n"
	require.NoError(t, os.WriteFile(filepath.Join(v.Folder, "scan.kpp"), []byte(mech), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(v.Folder, "ro2.kpp"), []byte(" RO2 = C(ind_CH3O2)\n"), 0o644))
	v.Mechanism = "scan.kpp"
	v.Summation = "ro2.kpp"
	v.Description = ""
	v.ExtractMode = string(model.ExtractScan)

	res, err := c.Run(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, []string{"CH4", "CH3O2"}, res.Species)
	assert.Equal(t, []string{"CH3O2"}, res.ClassifiedRO2)
	assert.Equal(t, []string{"CH3O2"}, res.DeclaredRO2)
	assert.Zero(t, res.ConflictCount())

	v.ExtractMode = string(model.ExtractBounded)
	_, err = c.Run(context.Background(), v)
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestRun_WithoutDescription(t *testing.T) {
	c := newTestChecker()
	v := fixtureVersion(t, "v3.2")
	v.Description = ""

	res, err := c.Run(context.Background(), v)
	require.NoError(t, err)
	assert.Nil(t, res.Description)
	assert.Len(t, res.Conflicts, 2)
}

func TestRun_MissingMechanism(t *testing.T) {
	c := newTestChecker()
	v := fixtureVersion(t, "broken")
	v.Mechanism = "absent.kpp"
	v.Summation = "absent.kpp"

	res, err := c.Run(context.Background(), v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIO))
	assert.Equal(t, err, res.Err)
	assert.NotEmpty(t, res.Error)
}

func TestRun_Cancelled(t *testing.T) {
	c := newTestChecker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, fixtureVersion(t, "v1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	c := NewChecker(nil, nil)
	c.Concurrency = 3

	good := fixtureVersion(t, "v3.3.1")
	shared := good
	shared.Name = "v3.3.1-copy"
	bad := fixtureVersion(t, "v3.1")
	bad.Database = "missing.db"

	results := c.RunAll(context.Background(), []config.VersionConfig{good, bad, shared})

	require.Len(t, results, 3)
	assert.Equal(t, "v3.3.1", results[0].Version)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "v3.1", results[1].Version)
	assert.True(t, errors.Is(results[1].Err, common.ErrIO))
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, c.Tables.Len(), "versions sharing a database load it once")
}

func TestPublish(t *testing.T) {
	ok := &mockSink{}
	failing := &mockSink{err: errors.New("boom")}
	c := newTestChecker(failing, ok)

	results := []*model.VersionResult{{Version: "v1"}}
	err := c.Publish(context.Background(), results)

	assert.EqualError(t, err, "boom")
	assert.Len(t, ok.published, 1)
	assert.Len(t, failing.published, 1)
}
