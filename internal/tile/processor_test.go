package tile

import "testing"

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		z, x, y int
		wantErr bool
	}{
		{"zero zoom single tile", 0, 0, 0, false},
		{"valid zoom 4", 4, 3, 3, false},
		{"negative zoom", -1, 0, 0, true},
		{"negative x", 4, -1, 0, true},
		{"negative y", 4, 0, -1, true},
		{"x out of range", 4, 16, 0, true},
		{"y out of range", 4, 0, 16, true},
		{"zoom too high", maxTileZoom + 1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.z, tt.x, tt.y)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%d, %d, %d) error = %v, wantErr %v", tt.z, tt.x, tt.y, err, tt.wantErr)
			}
		})
	}
}

func TestIsCompressed(t *testing.T) {
	if isCompressed(nil) {
		t.Error("nil headers should not be compressed")
	}
	if !isCompressed(map[string][]string{"Content-Encoding": {"gzip"}}) {
		t.Error("gzip Content-Encoding should report compressed")
	}
	if isCompressed(map[string][]string{"Content-Encoding": {"identity"}}) {
		t.Error("identity Content-Encoding should not report compressed")
	}
}
