package ioingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datasetHeader = "species_code,primary_name,scientific_name,category," +
	"family,order,range,extinct,extinct_year," +
	"name_de,name_es,name_fr,name_nl,name_pt\n"

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseDataset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	content := datasetHeader +
		"houspa,House Sparrow,Passer domesticus,species," +
		"Passeridae,Passeriformes,Eurasia,false,," +
		"Haussperling,Gorrión Común,Moineau domestique,Huismus,Pardal-comum\n" +
		"carcro1,Carrion Crow,Corvus corone,Species," +
		"Corvidae,Passeriformes,Europe,0,," +
		"Rabenkrähe,Corneja Negra,Corneille noire,Zwarte Kraai,Gralha-preta\n" +
		",Nameless,Anonymus anonymus,species," +
		"Incertae,Passeriformes,,false,,,,,,\n" +
		"hybrid1,Mystery Hybrid,Passer x Corvus,hybrid," +
		"Passeridae,Passeriformes,,false,,,,,,\n"

	path := writeDataset(t, content)

	var calls int
	res, err := parseDataset(context.Background(), path,
		func(done, total int64) {
			calls++
			assert.LessOrEqual(t, done, total)
		})
	require.NoError(t, err)

	// The blank species code and the non-whitelisted category are
	// discarded, not fatal.
	require.Len(t, res.rows, 2)
	assert.Equal(t, 2, res.discarded)
	assert.Positive(t, calls)

	first := res.rows[0]
	assert.Equal(t, "houspa", first.SpeciesCode)
	assert.Equal(t, "House Sparrow", first.PrimaryName)
	assert.Equal(t, "Passer domesticus", first.ScientificName)
	assert.Equal(t, "species", first.Category)
	assert.Equal(t, "Passeridae", first.Family)
	assert.Equal(t, "Passeriformes", first.TaxonOrder)
	assert.Equal(t, "Haussperling", first.NameDE)
	assert.False(t, first.Extinct)

	// Category is normalized on the way in.
	assert.Equal(t, "species", res.rows[1].Category)
}

func TestParseDatasetMissingColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	content := "species_code,primary_name,category\n" +
		"houspa,House Sparrow,species\n"
	path := writeDataset(t, content)

	_, err := parseDataset(context.Background(), path, nil)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.ParseError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Contains(t, gnErr.Vars[0], "scientific_name")
}

func TestParseDatasetFieldCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	content := datasetHeader + "houspa,House Sparrow\n"
	path := writeDataset(t, content)

	_, err := parseDataset(context.Background(), path, nil)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ParseError, gnErr.Code)
}

func TestParseDatasetMissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	_, err := parseDataset(context.Background(),
		filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.AssetReadError, gnErr.Code)
}

func TestParseDatasetCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	content := datasetHeader +
		"houspa,House Sparrow,Passer domesticus,species," +
		"Passeridae,Passeriformes,Eurasia,false,,,,,,\n"
	path := writeDataset(t, content)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parseDataset(ctx, path, nil)
	require.Error(t, err)
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"y", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFlag(tt.in), tt.in)
	}
}
