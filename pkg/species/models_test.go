package species_test

import (
	"testing"

	"github.com/birddex/birddex/pkg/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCategory(t *testing.T) {
	tests := []struct {
		msg      string
		category string
		want     bool
	}{
		{"species", "species", true},
		{"subspecies", "subspecies", true},
		{"family", "family", true},
		{"polytypic group", "group (polytypic)", true},
		{"monotypic group", "group (monotypic)", true},
		{"mixed case", "Species", true},
		{"padded", "  species  ", true},
		{"unranked", "unranked", false},
		{"hybrid", "hybrid", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, species.ValidCategory(tt.category))
		})
	}
}

func TestRecordValid(t *testing.T) {
	rec := species.Record{
		SpeciesCode: "bkcchi",
		Category:    "species",
	}
	assert.True(t, rec.Valid())

	t.Run("empty species code is invalid", func(t *testing.T) {
		bad := rec
		bad.SpeciesCode = "   "
		assert.False(t, bad.Valid())
	})

	t.Run("whitelisted category is required", func(t *testing.T) {
		bad := rec
		bad.Category = "unranked"
		assert.False(t, bad.Valid())
	})
}

func TestSortColumn(t *testing.T) {
	tests := []struct {
		key    string
		col    string
		wantOK bool
	}{
		{"primary_name", `"primary_name"`, true},
		{"scientific_name", `"scientific_name"`, true},
		{"species_code", `"species_code"`, true},
		{"category", `"category"`, true},
		{"family", `"family"`, true},
		{"order", `"order"`, true},
		{"range_description", "", false},
		{"primary_name; DROP TABLE species", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		col, ok := species.SortColumn(tt.key)
		assert.Equal(t, tt.wantOK, ok, tt.key)
		assert.Equal(t, tt.col, col, tt.key)
	}
}

func TestSortKeys(t *testing.T) {
	keys := species.SortKeys()
	require.Len(t, keys, 6)
	for _, key := range keys {
		_, ok := species.SortColumn(key)
		assert.True(t, ok, key)
	}
}

func TestLocalizedColumns(t *testing.T) {
	cols := species.LocalizedColumns()
	assert.Equal(t,
		[]string{"name_de", "name_es", "name_fr", "name_nl", "name_pt"},
		cols)
}
