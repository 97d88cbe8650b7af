package citydistance

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DataSourceID identifies a Geonames dump.
type DataSourceID string

const (
	DataSourceGeonamesCities  DataSourceID = "geonamesCities1000"
	DataSourceGeonamesCountry DataSourceID = "geonamesCountryInfo"
)

// DataSource is a downloadable Geonames file.
type DataSource struct {
	URL  string       // Download URL
	Name string       // File name inside the data directory
	ID   DataSourceID // Identifier for processing logic
}

// GeonamesSources are the dumps needed to build a places dataset.
var GeonamesSources = []DataSource{
	{URL: "https://download.geonames.org/export/dump/cities1000.zip", Name: "cities1000.zip", ID: DataSourceGeonamesCities},
	{URL: "https://download.geonames.org/export/dump/countryInfo.txt", Name: "countryInfo.txt", ID: DataSourceGeonamesCountry},
}

// httpClient is shared by downloads.
var httpClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// DownloadGeonames fetches every GeonamesSources file missing from dir.
func DownloadGeonames(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	for _, src := range GeonamesSources {
		localPath := filepath.Join(dir, src.Name)
		if _, err := os.Stat(localPath); err == nil {
			continue
		}
		if err := DownloadFile(ctx, src.URL, localPath); err != nil {
			return fmt.Errorf("downloading %s: %w", src.ID, err)
		}
	}
	return nil
}

// DownloadFile saves url to path. A partially written file is removed on error.
func DownloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(path)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	success = true
	return nil
}

// LoadGeonames reads the downloaded dumps in dir and returns places whose
// Country is the English country name rather than the ISO code.
func LoadGeonames(dir string) ([]PlaceRecord, error) {
	names, err := loadGeonamesCountryInfo(filepath.Join(dir, "countryInfo.txt"))
	if err != nil {
		return nil, fmt.Errorf("loading geonames country info: %w", err)
	}
	places, err := loadGeonamesCities(filepath.Join(dir, "cities1000.zip"), names)
	if err != nil {
		return nil, fmt.Errorf("loading geonames cities: %w", err)
	}
	if len(places) == 0 {
		return nil, ErrEmptyDataset
	}
	return places, nil
}

// loadGeonamesCities reads every file in a Geonames cities zip. When
// countryNames is non-nil, ISO country codes are replaced by names.
func loadGeonamesCities(path string, countryNames map[string]string) ([]PlaceRecord, error) {
	rz, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip file: %w", err)
	}
	defer rz.Close()

	var places []PlaceRecord
	for _, uF := range rz.File {
		places, err = readGeonamesEntry(uF, countryNames, places)
		if err != nil {
			return nil, err
		}
	}
	return places, nil
}

func readGeonamesEntry(uF *zip.File, countryNames map[string]string, places []PlaceRecord) ([]PlaceRecord, error) {
	fi, err := uF.Open()
	if err != nil {
		return nil, fmt.Errorf("opening file in zip: %w", err)
	}
	defer fi.Close()
	return readGeonamesCities(fi, countryNames, places)
}

// readGeonamesCities parses the tab-separated Geonames "geoname" table.
// Lines without all 19 fields are skipped.
func readGeonamesCities(r io.Reader, countryNames map[string]string, places []PlaceRecord) ([]PlaceRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "\t", 19)
		if len(fields) != 19 {
			continue
		}

		p := PlaceRecord{
			Name:       strings.TrimSpace(fields[1]),
			Country:    fields[8],
			RegionCode: fields[10],
		}
		if name, ok := countryNames[p.Country]; ok {
			p.Country = name
		}
		lat, errLat := strconv.ParseFloat(fields[4], 64)
		lng, errLng := strconv.ParseFloat(fields[5], 64)
		if errLat == nil && errLng == nil {
			c := Coordinates{Latitude: lat, Longitude: lng}
			if c.Valid() {
				p.Coordinates = &c
			}
		}
		places = append(places, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning geonames cities: %w", err)
	}
	return places, nil
}

// loadGeonamesCountryInfo maps ISO alpha-2 codes to English country names.
func loadGeonamesCountryInfo(path string) (map[string]string, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer fi.Close()
	return readGeonamesCountryInfo(fi)
}

func readGeonamesCountryInfo(r io.Reader) (map[string]string, error) {
	names := make(map[string]string, 256)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		t := scanner.Text()
		if len(t) == 0 || t[0] == '#' {
			continue
		}
		fields := strings.SplitN(t, "\t", 19)
		if len(fields) != 19 || fields[0] == "" || fields[0] == "0" {
			continue
		}
		names[fields[0]] = fields[4]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning country info: %w", err)
	}
	return names, nil
}
