package materials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindMaterialCaseInsensitive(t *testing.T) {
	c := DefaultCatalog()

	for _, key := range []string{"O2", "o2", "oxygen", "Oxygen"} {
		m, ok := c.FindMaterial(key)
		require.True(t, ok, key)
		require.Equal(t, "oxygen", m.ID)
		require.InDelta(t, 31.9988, m.MolarMass, 1e-9)
	}

	_, ok := c.FindMaterial("unobtainium")
	require.False(t, ok)
}

func TestSuggest(t *testing.T) {
	c := DefaultCatalog()
	require.Contains(t, c.Suggest("methan", 3), "methane")
	require.Empty(t, c.Suggest("zzzzzzzzzzzzzz", 3))
	require.Nil(t, c.Suggest("", 3))
}

func TestLoadCatalogOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	data := `[{"id":"xenon","name":"Xenon","chemical_formula":"Xe","category":"gas","molar_mass":131.293},
	          {"id":"argon","name":"Argon","chemical_formula":"Ar","category":"gas","molar_mass":40}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	xe, ok := c.FindMaterial("Xe")
	require.True(t, ok)
	require.InDelta(t, 131.293, xe.MolarMass, 1e-9)

	ar, ok := c.FindMaterial("argon")
	require.True(t, ok)
	require.Equal(t, 40.0, ar.MolarMass)

	_, ok = c.FindMaterial("N2")
	require.True(t, ok)
}

func TestLoadCatalogMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadCatalog(path)
	require.Error(t, err)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
