package citydistance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMissingColumn is returned when a dataset header lacks a required column.
	ErrMissingColumn = errors.New("dataset is missing a required column")
	// ErrEmptyDataset is returned when a dataset yields no records at all.
	ErrEmptyDataset = errors.New("dataset contains no records")
)

// Column identifies one of the named dataset columns the game reads.
type Column string

const (
	ColumnName        Column = "name"
	ColumnCountry     Column = "country"
	ColumnRegion      Column = "region"
	ColumnCoordinates Column = "coordinates"
)

// requiredColumns lists the columns every semicolon dataset must carry.
var requiredColumns = []Column{ColumnName, ColumnCountry, ColumnRegion, ColumnCoordinates}

// columnAliases maps lowercased header titles to the column they provide.
// The first entries are the Geonames "all cities" export titles.
var columnAliases = map[string]Column{
	"name":            ColumnName,
	"city":            ColumnName,
	"country name en": ColumnCountry,
	"country":         ColumnCountry,
	"country name":    ColumnCountry,
	"admin1 code":     ColumnRegion,
	"region":          ColumnRegion,
	"region code":     ColumnRegion,
	"state":           ColumnRegion,
	"coordinates":     ColumnCoordinates,
	"coords":          ColumnCoordinates,
}

// canonicalHeader is written by WriteDataset.
var canonicalHeader = []string{"Name", "Country name EN", "Admin1 Code", "Coordinates"}

// LoadDataset reads the places dataset at path. Files ending in .zip are read
// as a Geonames cities dump; anything else as a semicolon-delimited file with
// a header row.
func LoadDataset(path string) ([]PlaceRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		places, err := loadGeonamesCities(path, nil)
		if err != nil {
			return nil, fmt.Errorf("loading geonames dump %s: %w", path, err)
		}
		if len(places) == 0 {
			return nil, ErrEmptyDataset
		}
		return places, nil
	}

	fi, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer fi.Close()

	places, err := ReadDataset(fi)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return places, nil
}

// ReadDataset parses a semicolon-delimited dataset. Columns are bound by
// header title; rows with the wrong number of fields are skipped. Rows with an
// empty name or unparseable coordinates are kept with that field absent.
func ReadDataset(r io.Reader) ([]PlaceRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	width := len(header)
	index, err := bindColumns(header)
	if err != nil {
		return nil, err
	}

	var places []PlaceRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(row) != width {
			continue
		}
		places = append(places, placeFromRow(row, index))
	}

	if len(places) == 0 {
		return nil, ErrEmptyDataset
	}
	return places, nil
}

// bindColumns resolves the position of every required column in header.
func bindColumns(header []string) (map[Column]int, error) {
	index := make(map[Column]int, len(requiredColumns))
	for i, title := range header {
		title = strings.TrimPrefix(title, "\ufeff")
		col, ok := columnAliases[strings.ToLower(strings.TrimSpace(title))]
		if !ok {
			continue
		}
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return index, nil
}

func placeFromRow(row []string, index map[Column]int) PlaceRecord {
	p := PlaceRecord{
		Name:       strings.TrimSpace(row[index[ColumnName]]),
		Country:    strings.TrimSpace(row[index[ColumnCountry]]),
		RegionCode: strings.TrimSpace(row[index[ColumnRegion]]),
	}
	if c, err := ParseCoordinates(row[index[ColumnCoordinates]]); err == nil {
		p.Coordinates = &c
	}
	return p
}

// WriteDataset writes places in the semicolon format read by ReadDataset.
// Records without coordinates are written with an empty coordinate field.
func WriteDataset(w io.Writer, places []PlaceRecord) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(canonicalHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(canonicalHeader))
	for _, p := range places {
		row[0] = p.Name
		row[1] = p.Country
		row[2] = p.RegionCode
		row[3] = ""
		if p.Coordinates != nil {
			row[3] = p.Coordinates.String()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", p.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
