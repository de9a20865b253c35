// Package species provides the domain model for the local species
// dictionary: the reference record shape, its SQLite DDL, the category
// whitelist applied during ingestion, and query validation helpers.
package species

import (
	"strings"
)

// DatasetVersion identifies the revision of the bundled reference
// dataset. Ingestion is skipped when the stored metadata version
// matches this constant.
const DatasetVersion = "v2024.2"

// Metadata table keys.
const (
	MetaKeyVersion       = "dataset_version"
	MetaKeyInitializedAt = "initialized_at"
)

// CategoryAll disables category filtering in queries.
const CategoryAll = "all"

// Record is one reference-data row identifying a taxon.
// Rows are bulk-created during ingestion and never mutated afterward
// except by a full re-ingestion.
type Record struct {
	// SpeciesCode is the stable unique key of the taxon.
	SpeciesCode string `db:"species_code" ddl:"TEXT PRIMARY KEY"`

	// PrimaryName is the primary (English) display name.
	PrimaryName string `db:"primary_name" ddl:"TEXT NOT NULL"`

	// ScientificName is the latinized binomial or group name.
	ScientificName string `db:"scientific_name" ddl:"TEXT NOT NULL"`

	// Category is the checklist rank, one of Categories.
	Category string `db:"category" ddl:"TEXT NOT NULL"`

	// Family is the taxonomic family, e.g. "Anatidae (Ducks, Geese, and Swans)".
	Family string `db:"family" ddl:"TEXT NOT NULL DEFAULT ''"`

	// TaxonOrder is the taxonomic order, e.g. "Anseriformes".
	TaxonOrder string `db:"order" ddl:"TEXT NOT NULL DEFAULT ''"`

	// RangeDescription is a free-text description of geographic range.
	RangeDescription string `db:"range_description" ddl:"TEXT NOT NULL DEFAULT ''"`

	// Extinct is true when the taxon is marked extinct in the checklist.
	Extinct bool `db:"extinct" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// ExtinctYear is the year of extinction, empty when unknown or n/a.
	ExtinctYear string `db:"extinct_year" ddl:"TEXT NOT NULL DEFAULT ''"`

	// NameDE..NamePT are localized display names, one column per
	// supported display language.
	NameDE string `db:"name_de" ddl:"TEXT NOT NULL DEFAULT ''"`
	NameES string `db:"name_es" ddl:"TEXT NOT NULL DEFAULT ''"`
	NameFR string `db:"name_fr" ddl:"TEXT NOT NULL DEFAULT ''"`
	NameNL string `db:"name_nl" ddl:"TEXT NOT NULL DEFAULT ''"`
	NamePT string `db:"name_pt" ddl:"TEXT NOT NULL DEFAULT ''"`

	// DatasetVersion records the dataset revision a row came from.
	DatasetVersion string `db:"dataset_version" ddl:"TEXT NOT NULL"`

	// IngestedAt is the RFC3339 timestamp of the ingestion run.
	IngestedAt string `db:"ingested_at" ddl:"TEXT NOT NULL"`

	// Logged is derived at query time from the externally-owned user
	// log table. It is never persisted.
	Logged bool
}

// Categories is the whitelist of checklist categories persisted during
// ingestion. Rows with any other category are discarded.
var Categories = map[string]struct{}{
	"species":           {},
	"subspecies":        {},
	"family":            {},
	"group (polytypic)": {},
	"group (monotypic)": {},
}

// ValidCategory reports whether a dataset category passes the
// ingestion whitelist.
func ValidCategory(category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	_, ok := Categories[category]
	return ok
}

// Valid reports whether a parsed record may be persisted: the species
// code must be non-empty and the category whitelisted.
func (r *Record) Valid() bool {
	return strings.TrimSpace(r.SpeciesCode) != "" && ValidCategory(r.Category)
}

// sortColumns whitelists sort keys accepted by paged listing and maps
// them to quoted SQL identifiers ("order" is a reserved word).
var sortColumns = map[string]string{
	"species_code":    `"species_code"`,
	"primary_name":    `"primary_name"`,
	"scientific_name": `"scientific_name"`,
	"category":        `"category"`,
	"family":          `"family"`,
	"order":           `"order"`,
}

// SortColumn maps a caller-supplied sort key to a quoted SQL column.
// Unknown keys return ok=false and must be rejected by the caller.
func SortColumn(key string) (string, bool) {
	col, ok := sortColumns[key]
	return col, ok
}

// SortKeys returns the accepted sort keys in no particular order.
func SortKeys() []string {
	res := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		res = append(res, k)
	}
	return res
}

// LocalizedColumns returns the localized-name column names searched by
// free-text lookup, in a fixed order.
func LocalizedColumns() []string {
	return []string{"name_de", "name_es", "name_fr", "name_nl", "name_pt"}
}

// CategoryCount is a distinct checklist category with its record
// count, as returned by AvailableCategories.
type CategoryCount struct {
	Category string
	Count    int
}
