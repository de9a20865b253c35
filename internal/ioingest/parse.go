package ioingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/birddex/birddex/pkg/species"
)

// Required dataset columns. The header row is mapped to record fields
// explicitly; a missing required column fails fast instead of
// silently producing empty fields.
var requiredColumns = []string{
	"species_code",
	"primary_name",
	"scientific_name",
	"category",
	"family",
	"order",
	"range",
	"extinct",
	"extinct_year",
}

// localizedColumn maps a dataset header to the record's localized
// name columns. Localized columns are required too: a dataset built
// without them is a packaging error, not a degraded variant.
var localizedColumns = []string{
	"name_de", "name_es", "name_fr", "name_nl", "name_pt",
}

// columnIndex is the validated header-to-position mapping.
type columnIndex map[string]int

// countingReader tracks bytes consumed so parsing can attribute
// progress proportional to the dataset size.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// parseResult carries the outcome of a dataset parse.
type parseResult struct {
	rows      []species.Record
	discarded int
}

// parseDataset stream-parses the flat dataset, filtering rows through
// the category whitelist and buffering valid rows in memory.
// onProgress, when non-nil, receives (bytesConsumed, totalBytes)
// after every row.
func parseDataset(
	ctx context.Context,
	path string,
	onProgress func(done, total int64),
) (*parseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, AssetReadError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, AssetReadError(path, err)
	}
	total := info.Size()

	cr := &countingReader{r: f}
	reader := csv.NewReader(cr)
	reader.FieldsPerRecord = -1 // validated per row below

	header, err := reader.Read()
	if err != nil {
		return nil, ParseError(1, err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	res := &parseResult{}
	line := 1
	for {
		select {
		case <-ctx.Done():
			return nil, AssetReadError(path, ctx.Err())
		default:
		}

		fields, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ParseError(line, err)
		}
		if len(fields) != len(header) {
			return nil, ParseError(line, errFieldCount(len(header), len(fields)))
		}

		rec := rowToRecord(fields, cols)
		if !rec.Valid() {
			res.discarded++
			continue
		}
		res.rows = append(res.rows, rec)

		if onProgress != nil {
			onProgress(cr.n, total)
		}
	}

	return res, nil
}

// mapHeader builds the column index and fails fast when a required
// column is absent.
func mapHeader(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range localizedColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, MissingColumnsError(missing)
	}
	return cols, nil
}

// rowToRecord maps one dataset row into a typed record. Version and
// timestamp stamping is the pipeline's job.
func rowToRecord(fields []string, cols columnIndex) species.Record {
	get := func(name string) string {
		return strings.TrimSpace(fields[cols[name]])
	}

	return species.Record{
		SpeciesCode:      get("species_code"),
		PrimaryName:      get("primary_name"),
		ScientificName:   get("scientific_name"),
		Category:         strings.ToLower(get("category")),
		Family:           get("family"),
		TaxonOrder:       get("order"),
		RangeDescription: get("range"),
		Extinct:          parseFlag(get("extinct")),
		ExtinctYear:      get("extinct_year"),
		NameDE:           get("name_de"),
		NameES:           get("name_es"),
		NameFR:           get("name_fr"),
		NameNL:           get("name_nl"),
		NamePT:           get("name_pt"),
	}
}

// parseFlag accepts the flag spellings seen across checklist exports.
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
