package mission

import (
	"testing"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/segment"
)

func TestDefaultDropZones(t *testing.T) {
	zones := DefaultDropZones()
	if err := zones.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range []colorspec.Color{colorspec.Red, colorspec.Green, colorspec.Blue} {
		if _, ok := zones[c]; !ok {
			t.Errorf("no drop zone for %v", c)
		}
	}
	if zones[colorspec.Green].X != 300 || zones[colorspec.Green].Y != 350 {
		t.Errorf("green zone at (%v, %v), want (300, 350)", zones[colorspec.Green].X, zones[colorspec.Green].Y)
	}
}

func TestDropZoneValidate(t *testing.T) {
	tests := []struct {
		name    string
		zones   DropZoneMap
		wantErr bool
	}{
		{"defaults", DefaultDropZones(), false},
		{"empty map", DropZoneMap{}, true},
		{
			"x out of workspace",
			DropZoneMap{colorspec.Red: {Name: "red-bin", X: segment.WorkspaceWidth + 1, Y: 100, Z: 50}},
			true,
		},
		{
			"negative y",
			DropZoneMap{colorspec.Red: {Name: "red-bin", X: 100, Y: -1, Z: 50}},
			true,
		},
		{
			"negative z",
			DropZoneMap{colorspec.Red: {Name: "red-bin", X: 100, Y: 100, Z: -1}},
			true,
		},
		{
			"unnamed zone",
			DropZoneMap{colorspec.Red: {X: 100, Y: 100, Z: 50}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.zones.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
