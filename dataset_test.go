package citydistance

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDataset = `Geoname ID;Name;ASCII Name;Country Code;Country name EN;Admin1 Code;Population;Coordinates
2988507;Paris;Paris;FR;France;11;2138551;48.85341, 2.3488
5368361;Los Angeles;Los Angeles;US;United States;CA;3971883;34.05223, -118.24368
2648579;Glasgow;Glasgow;GB;United Kingdom;SCT;591620;55.86515, -4.25763
1;broken;row
2;;Nameless;XX;Nowhere;;0;10.0, 10.0
3;Lost;Lost;XX;;;0;not coordinates
`

func TestReadDataset(t *testing.T) {
	places, err := ReadDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}
	if len(places) != 5 {
		t.Fatalf("ReadDataset() returned %d places, want 5 (malformed row skipped)", len(places))
	}

	la := places[1]
	if la.Name != "Los Angeles" || la.Country != "United States" || la.RegionCode != "CA" {
		t.Errorf("places[1] = %+v", la)
	}
	if la.Coordinates == nil || la.Coordinates.Latitude != 34.05223 || la.Coordinates.Longitude != -118.24368 {
		t.Errorf("places[1].Coordinates = %v", la.Coordinates)
	}
	if got := la.Label(); got != "Los Angeles, California" {
		t.Errorf("places[1].Label() = %q", got)
	}

	if places[3].Usable() {
		t.Error("record without a name reported usable")
	}
	if places[4].Coordinates != nil || places[4].Usable() {
		t.Error("record with bad coordinates reported usable")
	}
	if places[4].Country != "" {
		t.Errorf("places[4].Country = %q, want absent", places[4].Country)
	}
}

func TestReadDataset_HeaderAliasesAndBOM(t *testing.T) {
	in := "\ufeffcoordinates;Region;CITY;Country\n51.5, -0.12;ENG;London;UK\n"
	places, err := ReadDataset(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("got %d places, want 1", len(places))
	}
	if got := places[0].Label(); got != "London, England" {
		t.Errorf("Label() = %q, want %q", got, "London, England")
	}
}

func TestReadDataset_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty input", "", ErrEmptyDataset},
		{"header only", "Name;Country;Admin1 Code;Coordinates\n", ErrEmptyDataset},
		{"missing coordinates column", "Name;Country;Admin1 Code\nParis;France;11\n", ErrMissingColumn},
		{"missing region column", "Name;Country;Coordinates\nParis;France;1, 2\n", ErrMissingColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadDataset() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteDataset_ReadBack(t *testing.T) {
	places, err := ReadDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteDataset(&buf, places); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Name;Country name EN;Admin1 Code;Coordinates\n") {
		t.Errorf("unexpected header in %q", buf.String())
	}

	back, err := ReadDataset(&buf)
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}
	if len(back) != len(places) {
		t.Fatalf("read back %d places, want %d", len(back), len(places))
	}
	for i := range places {
		if back[i].Label() != places[i].Label() || back[i].Usable() != places[i].Usable() {
			t.Errorf("place %d: got %+v, want %+v", i, back[i], places[i])
		}
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.csv")
	if err := os.WriteFile(path, []byte(sampleDataset), 0644); err != nil {
		t.Fatal(err)
	}
	places, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if len(places) != 5 {
		t.Errorf("LoadDataset() returned %d places, want 5", len(places))
	}

	if _, err := LoadDataset(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("LoadDataset() on a missing file returned nil error")
	}
}

// geonamesLine builds a 19-field Geonames "geoname" row.
func geonamesLine(name, lat, lng, country, admin1 string) string {
	f := make([]string, 19)
	f[0] = "1"
	f[1] = name
	f[2] = name
	f[4] = lat
	f[5] = lng
	f[8] = country
	f[10] = admin1
	return strings.Join(f, "\t")
}

func TestLoadDataset_GeonamesZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities1000.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("cities1000.txt")
	if err != nil {
		t.Fatal(err)
	}
	lines := []string{
		geonamesLine("Austin", "30.26715", "-97.74306", "US", "TX"),
		geonamesLine("Cardiff", "51.48", "-3.18", "GB", "WLS"),
		"too\tfew\tfields",
		geonamesLine("Badlat", "x", "1", "FR", "11"),
	}
	if _, err := w.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	places, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if len(places) != 3 {
		t.Fatalf("got %d places, want 3", len(places))
	}
	if got := places[0].Label(); got != "Austin, Texas" {
		t.Errorf("places[0].Label() = %q", got)
	}
	if got := places[1].Label(); got != "Cardiff, Wales" {
		t.Errorf("places[1].Label() = %q", got)
	}
	if places[2].Usable() {
		t.Error("place with unparseable latitude reported usable")
	}
}

func TestReadGeonamesCountryInfo(t *testing.T) {
	row := func(iso, name string) string {
		f := make([]string, 19)
		f[0], f[4] = iso, name
		return strings.Join(f, "\t")
	}
	in := strings.Join([]string{
		"#ISO\tISO3\tcomment",
		row("US", "United States"),
		row("GB", "United Kingdom"),
		"short\tline",
	}, "\n")

	names, err := readGeonamesCountryInfo(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names["GB"] != "United Kingdom" {
		t.Errorf("readGeonamesCountryInfo() = %v", names)
	}

	places, err := readGeonamesCities(strings.NewReader(geonamesLine("Perth", "56.4", "-3.43", "GB", "SCT")), names, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(places) != 1 || places[0].Country != "United Kingdom" {
		t.Fatalf("readGeonamesCities() = %+v", places)
	}
	if got := places[0].Label(); got != "Perth, Scotland" {
		t.Errorf("Label() = %q", got)
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		in      string
		want    Coordinates
		wantErr bool
	}{
		{"55.68004068027785, 12.574885137312116", Coordinates{55.68004068027785, 12.574885137312116}, false},
		{"-33.86,151.2", Coordinates{-33.86, 151.2}, false},
		{" 0 , 0 ", Coordinates{0, 0}, false},
		{"", Coordinates{}, true},
		{"12.5", Coordinates{}, true},
		{"1, 2, 3", Coordinates{}, true},
		{"north, east", Coordinates{}, true},
		{"91, 0", Coordinates{}, true},
		{"0, -181", Coordinates{}, true},
		{"NaN, 0", Coordinates{}, true},
	}
	for _, tt := range tests {
		got, err := ParseCoordinates(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCoordinates(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ParseCoordinates(%q) error = %v, want ErrInvalidCoordinates", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCoordinates(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
