package colorspec

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		h, s, v uint8
		want    Color
	}{
		{"pure red low hue", 5, 200, 200, Red},
		{"red wrap high hue", 175, 200, 200, Red},
		{"green", 60, 150, 150, Green},
		{"blue", 115, 150, 150, Blue},
		{"yellow-ish gap", 25, 200, 200, Other},
		{"washed out", 60, 30, 200, Other},
		{"too dark", 60, 200, 30, Other},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.h, tc.s, tc.v)
			if got != tc.want {
				t.Errorf("Classify(%d,%d,%d): got %s, want %s", tc.h, tc.s, tc.v, got, tc.want)
			}
		})
	}
}

func TestClassifyRGB(t *testing.T) {
	c := NewClassifier()

	if got := c.ClassifyRGB(220, 20, 20); got != Red {
		t.Errorf("ClassifyRGB red: got %s", got)
	}
	if got := c.ClassifyRGB(20, 220, 20); got != Green {
		t.Errorf("ClassifyRGB green: got %s", got)
	}
	if got := c.ClassifyRGB(20, 20, 220); got != Blue {
		t.Errorf("ClassifyRGB blue: got %s", got)
	}
	if got := c.ClassifyRGB(128, 128, 128); got != Other {
		t.Errorf("ClassifyRGB gray: got %s", got)
	}
}

func TestRGBToHSV(t *testing.T) {
	// Pure red: hue 0, full saturation and value.
	h, s, v := RGBToHSV(255, 0, 0)
	if h != 0 || s != 255 || v != 255 {
		t.Errorf("pure red: got (%d,%d,%d), want (0,255,255)", h, s, v)
	}

	// Pure blue: hue 240/2 = 120 in OpenCV scaling.
	h, _, _ = RGBToHSV(0, 0, 255)
	if h != 120 {
		t.Errorf("pure blue hue: got %d, want 120", h)
	}

	// Black has zero value.
	_, _, v = RGBToHSV(0, 0, 0)
	if v != 0 {
		t.Errorf("black value: got %d, want 0", v)
	}
}

func TestDefaultRangesValid(t *testing.T) {
	if err := ValidateRanges(DefaultRanges()); err != nil {
		t.Fatalf("default ranges should validate: %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	bad := []ColorRange{
		{Color: Red, Ranges: []HSVRange{{Lo: HSV{200, 0, 0}, Hi: HSV{210, 255, 255}}}},
	}
	if err := ValidateRanges(bad); err == nil {
		t.Error("hue above 180 should fail validation")
	}

	inverted := []ColorRange{
		{Color: Green, Ranges: []HSVRange{{Lo: HSV{90, 50, 50}, Hi: HSV{35, 255, 255}}}},
	}
	if err := ValidateRanges(inverted); err == nil {
		t.Error("inverted bounds should fail validation")
	}

	dup := []ColorRange{
		{Color: Blue, Ranges: []HSVRange{{Lo: HSV{95, 50, 50}, Hi: HSV{135, 255, 255}}}},
		{Color: Blue, Ranges: []HSVRange{{Lo: HSV{95, 50, 50}, Hi: HSV{135, 255, 255}}}},
	}
	if err := ValidateRanges(dup); err == nil {
		t.Error("duplicate labels should fail validation")
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.csv")
	csvData := "slug,name,hex,r,g,b\n" +
		"air_force_blue_raf,Air Force Blue (Raf),#5d8aa8,93,138,168\n" +
		"alizarin_crimson,Alizarin Crimson,#e32636,227,38,54\n"
	if err := os.WriteFile(path, []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("entries: got %d, want 2", ds.Len())
	}

	nearest := ds.Nearest(230, 40, 50)
	if nearest.Name != "Alizarin Crimson" {
		t.Errorf("Nearest: got %q, want Alizarin Crimson", nearest.Name)
	}
}

func TestLoadDatasetMissing(t *testing.T) {
	if _, err := LoadDataset("does/not/exist.csv"); err == nil {
		t.Error("missing file should return an error")
	}
}
