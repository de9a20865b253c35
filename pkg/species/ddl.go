package species

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
// Column identifiers are quoted so reserved words ("order") are safe.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %q %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Record DDL methods
func (r Record) TableDDL() string {
	return generateDDL(r, "species")
}

// IndexDDL returns the secondary indexes built after ingestion:
// case-insensitive indexes over the name columns used by free-text
// search plus the classification columns used by filters.
func (r Record) IndexDDL() []string {
	res := []string{
		"CREATE INDEX idx_species_primary_name ON species(primary_name COLLATE NOCASE);",
		"CREATE INDEX idx_species_scientific_name ON species(scientific_name COLLATE NOCASE);",
		"CREATE INDEX idx_species_category ON species(category COLLATE NOCASE);",
		"CREATE INDEX idx_species_family ON species(family COLLATE NOCASE);",
	}
	for _, col := range LocalizedColumns() {
		res = append(res, fmt.Sprintf(
			"CREATE INDEX idx_species_%s ON species(%s COLLATE NOCASE);",
			col, col))
	}
	return res
}

func (r Record) TableName() string {
	return "species"
}

// Columns returns the persisted column names in struct order,
// quoted for use in INSERT statements.
func (r Record) Columns() []string {
	t := reflect.TypeOf(r)
	var res []string
	for i := 0; i < t.NumField(); i++ {
		dbTag := t.Field(i).Tag.Get("db")
		ddlTag := t.Field(i).Tag.Get("ddl")
		if dbTag != "" && ddlTag != "" {
			res = append(res, fmt.Sprintf("%q", dbTag))
		}
	}
	return res
}

// Values returns the persisted field values in the same order as
// Columns, for use as INSERT arguments.
func (r Record) Values() []any {
	return []any{
		r.SpeciesCode, r.PrimaryName, r.ScientificName, r.Category,
		r.Family, r.TaxonOrder, r.RangeDescription, r.Extinct,
		r.ExtinctYear, r.NameDE, r.NameES, r.NameFR, r.NameNL,
		r.NamePT, r.DatasetVersion, r.IngestedAt,
	}
}

// Meta is the singleton key/value metadata table recording the
// dataset version tag and ingestion timestamp.
type Meta struct {
	Key   string `db:"key" ddl:"TEXT PRIMARY KEY"`
	Value string `db:"value" ddl:"TEXT NOT NULL"`
}

// Meta DDL methods
func (m Meta) TableDDL() string {
	return generateDDL(m, "meta")
}

func (m Meta) IndexDDL() []string {
	return []string{}
}

func (m Meta) TableName() string {
	return "meta"
}
