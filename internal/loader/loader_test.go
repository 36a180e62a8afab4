package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

const header = "Date,Region,Track,Streams,Likes,Shares,Skip_Rate,Playlist_Reach,Campaign_Type,Premium_Conversions,Revenue,Cost_Per_Acquisition,ROI\n"

const validRows = "2023-01-01,USA,Cruel Summer,100,10,2,0.2,150,TikTok Challenge,1,5.3,12.5,-0.58\n" +
	"2023-01-02 00:00:00,UK,Anti-Hero,50,5,1,0.4,75,Radio Push,0,0.15,8,0\n"

func sampleTable(t *testing.T) *models.FactTable {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(header+validRows), "sample.csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	return table
}

func TestReadCSV(t *testing.T) {
	table := sampleTable(t)
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	r := table.Record(1)
	want := models.FactRecord{
		Date:               time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Region:             "UK",
		Track:              "Anti-Hero",
		Streams:            50,
		Likes:              5,
		Shares:             1,
		SkipRate:           0.4,
		PlaylistReach:      75,
		CampaignType:       "Radio Push",
		PremiumConversions: 0,
		Revenue:            0.15,
		CostPerAcquisition: 8,
		ROI:                0,
	}
	if r != want {
		t.Errorf("Record(1) = %+v, want %+v", r, want)
	}
	if table.Record(0).ROI != -0.58 {
		t.Errorf("ROI = %v, want -0.58", table.Record(0).ROI)
	}
}

func TestReadCSV_HeaderVariants(t *testing.T) {
	h := "\ufeffdate,region,track,streams,likes,shares,Skip Rate,playlist_reach,CAMPAIGN TYPE,premium-conversions,revenue,cost_per_acquisition,roi\n"
	table, err := ReadCSV(strings.NewReader(h+validRows), "variants.csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestReadCSV_ColumnOrderIndependent(t *testing.T) {
	in := "ROI,Date,Region,Track,Streams,Likes,Shares,Skip_Rate,Playlist_Reach,Campaign_Type,Premium_Conversions,Revenue,Cost_Per_Acquisition,Extra\n" +
		"0.5,2023-01-01,USA,Karma,10,1,0,0.1,12,Radio Push,0,0.03,8,ignored\n"
	table, err := ReadCSV(strings.NewReader(in), "reordered.csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if r := table.Record(0); r.ROI != 0.5 || r.Track != "Karma" {
		t.Errorf("Record(0) = %+v", r)
	}
}

func TestReadCSV_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
		row    int
	}{
		{
			name:   "MissingColumn",
			input:  strings.Replace(header, ",ROI", "", 1) + "2023-01-01,USA,A,1,1,1,0.1,1,X,0,1,1\n",
			column: ColROI,
		},
		{"Empty", "", "", 0},
		{"BadDate", header + "yesterday,USA,A,1,1,1,0.1,1,X,0,1,1,0\n", ColDate, 1},
		{"BadInteger", header + validRows + "2023-01-03,USA,A,many,1,1,0.1,1,X,0,1,1,0\n", ColStreams, 3},
		{"FractionalCount", header + "2023-01-03,USA,A,1.5,1,1,0.1,1,X,0,1,1,0\n", ColStreams, 1},
		{"NegativeCount", header + "2023-01-03,USA,A,1,-4,1,0.1,1,X,0,1,1,0\n", ColLikes, 1},
		{"HugeCount", header + "2023-01-03,USA,A,1e30,1,1,0.1,1,X,0,1,1,0\n", ColStreams, 1},
		{"CountAtTwoPow63", header + "2023-01-03,USA,A,9223372036854775808.0,1,1,0.1,1,X,0,1,1,0\n", ColStreams, 1},
		{"NegativeHugeCount", header + "2023-01-03,USA,A,1,-1e30,1,0.1,1,X,0,1,1,0\n", ColLikes, 1},
		{"SkipRateAboveOne", header + "2023-01-03,USA,A,1,1,1,1.2,1,X,0,1,1,0\n", ColSkipRate, 1},
		{"NegativeRevenue", header + "2023-01-03,USA,A,1,1,1,0.1,1,X,0,-1,1,0\n", ColRevenue, 1},
		{"EmptyRegion", header + "2023-01-03,,A,1,1,1,0.1,1,X,0,1,1,0\n", ColRegion, 1},
		{"NaNROI", header + "2023-01-03,USA,A,1,1,1,0.1,1,X,0,1,1,NaN\n", ColROI, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "bad.csv")
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("ReadCSV() error = %v, want SchemaError", err)
			}
			if schemaErr.Column != tt.column || schemaErr.Row != tt.row {
				t.Errorf("SchemaError = %+v, want column %q row %d", schemaErr, tt.column, tt.row)
			}
			if schemaErr.Source != "bad.csv" {
				t.Errorf("Source = %q", schemaErr.Source)
			}
		})
	}
}

func TestReadCSV_IntegralFloatCount(t *testing.T) {
	in := header + "2023-01-03,USA,A,120.0,1,1,0.1,1,X,0,1,1,0\n"
	table, err := ReadCSV(strings.NewReader(in), "floats.csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if table.Streams[0] != 120 {
		t.Errorf("Streams = %d, want 120", table.Streams[0])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	table := sampleTable(t)
	path := filepath.Join(t.TempDir(), "artist.csv")
	if err := WriteCSVFile(path, table); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}
	got, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}
	for i := 0; i < table.Len(); i++ {
		if got.Record(i) != table.Record(i) {
			t.Errorf("record %d = %+v, want %+v", i, got.Record(i), table.Record(i))
		}
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	table := sampleTable(t)
	path := filepath.Join(t.TempDir(), "artist.xlsx")
	if err := WriteXLSX(path, table); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	got, err := ReadXLSXFile(path)
	if err != nil {
		t.Fatalf("ReadXLSXFile() error = %v", err)
	}
	if got.Len() != table.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), table.Len())
	}
	for i := 0; i < table.Len(); i++ {
		if got.Record(i) != table.Record(i) {
			t.Errorf("record %d = %+v, want %+v", i, got.Record(i), table.Record(i))
		}
	}
}

func TestReadXLSX_SerialDates(t *testing.T) {
	f := excelize.NewFile()
	for i, c := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue("Sheet1", cell, c); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	// 44927 is 2023-01-01 in the 1900 date system.
	row := []any{44927, "USA", "Karma", 10, 1, 0, 0.1, 12, "Radio Push", 0, 0.03, 8, 0.5}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		t.Fatalf("set row: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	table, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "serial.xlsx")
	if err != nil {
		t.Fatalf("ReadXLSX() error = %v", err)
	}
	if want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC); !table.Date[0].Equal(want) {
		t.Errorf("Date = %v, want %v", table.Date[0], want)
	}
}

func TestReadXLSX_Invalid(t *testing.T) {
	if _, err := ReadXLSX(bytes.NewReader([]byte("not excel")), "junk.xlsx"); err == nil {
		t.Error("ReadXLSX() expected error for invalid input")
	}

	f := excelize.NewFile()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write excel: %v", err)
	}
	_, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "empty.xlsx")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("ReadXLSX(empty) error = %v, want SchemaError", err)
	}
}

func TestNameFromID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"dua_lipa", "Dua Lipa"},
		{"the-weeknd", "The Weeknd"},
		{"adele", "Adele"},
		{"__", "__"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := NameFromID(tt.id); got != tt.want {
				t.Errorf("NameFromID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	p := reg.Profile("taylor_swift")
	if p.Name != "Taylor Swift" || p.Color != "#A52A2A" {
		t.Errorf("Profile(taylor_swift) = %+v", p)
	}
	unknown := reg.Profile("olivia_rodrigo")
	if unknown.Name != "Olivia Rodrigo" || unknown.Color != models.DefaultArtistColor {
		t.Errorf("Profile(olivia_rodrigo) = %+v", unknown)
	}
	if reg.Known("olivia_rodrigo") {
		t.Error("Known() = true for unregistered artist")
	}
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artists.yaml")
	content := `artists:
  - id: drake
    name: Drake
    color: "#000000"
  - id: sza
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if got := reg.Profile("drake").Color; got != "#000000" {
		t.Errorf("drake color = %q, want override", got)
	}
	if got := reg.Profile("sza"); got.Name != "Sza" || got.Color != models.DefaultArtistColor {
		t.Errorf("sza = %+v", got)
	}

	missing, err := LoadRegistry(filepath.Join(dir, "nope.yaml"))
	if err != nil || !missing.Known("dua_lipa") {
		t.Errorf("LoadRegistry(missing) = %v, %v", missing, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("artists:\n  - name: NoID\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistry(bad); err == nil {
		t.Error("LoadRegistry() expected error for entry without id")
	}
}

func TestRegistry_MarshalRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.Set(models.ArtistProfile{ID: "sza", Name: "SZA"})
	data, err := reg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "artists.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadRegistry(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Profile("sza").Name != "SZA" || got.Profile("bad_bunny").Color != "#FFD700" {
		t.Errorf("round trip lost profiles: %s", data)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	table := sampleTable(t)
	if err := WriteCSVFile(filepath.Join(dir, "taylor_swift.csv"), table); err != nil {
		t.Fatal(err)
	}
	if err := WriteXLSX(filepath.Join(dir, "new_artist.xlsx"), table); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden.csv"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	artists, err := LoadDir(context.Background(), dir, NewRegistry(), 2)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("LoadDir() returned %d artists, want 2", len(artists))
	}
	if artists[0].Profile.Name != "New Artist" || artists[1].Profile.Name != "Taylor Swift" {
		t.Errorf("artists = %q, %q", artists[0].Profile.Name, artists[1].Profile.Name)
	}
	for _, a := range artists {
		if a.Table.Len() != 2 {
			t.Errorf("%s has %d records", a.Profile.ID, a.Table.Len())
		}
	}
}

func TestLoadDir_Errors(t *testing.T) {
	t.Run("SchemaError", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("Date,Region\n2023-01-01,USA\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadDir(context.Background(), dir, NewRegistry(), 1)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("LoadDir() error = %v, want SchemaError", err)
		}
	})

	t.Run("DuplicateStem", func(t *testing.T) {
		dir := t.TempDir()
		table := sampleTable(t)
		if err := WriteCSVFile(filepath.Join(dir, "drake.csv"), table); err != nil {
			t.Fatal(err)
		}
		if err := WriteXLSX(filepath.Join(dir, "drake.xlsx"), table); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadDir(context.Background(), dir, NewRegistry(), 1); err == nil {
			t.Error("LoadDir() expected duplicate artist error")
		}
	})

	t.Run("MissingDir", func(t *testing.T) {
		if _, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), NewRegistry(), 1); err == nil {
			t.Error("LoadDir() expected error for missing dir")
		}
	})
}
