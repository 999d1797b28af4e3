package mvt

import "testing"

func TestParseLayerBasics(t *testing.T) {
	buf := buildLayer(layerSpec{
		name:    "water",
		version: 2,
		extent:  4096,
		keys:    []string{"class", "name"},
		values:  [][]byte{buildValueString("ocean")},
		features: [][]byte{
			buildFeature(featureSpec{geomType: GeomPolygon}),
		},
	})

	layer, err := parseLayer(buf)
	if err != nil {
		t.Fatalf("parseLayer() error = %v", err)
	}
	if layer.Name() != "water" {
		t.Errorf("Name() = %s, want water", layer.Name())
	}
	if layer.Version() != 2 {
		t.Errorf("Version() = %d, want 2", layer.Version())
	}
	if layer.Extent() != 4096 {
		t.Errorf("Extent() = %d, want 4096", layer.Extent())
	}
	keys := layer.Keys()
	if len(keys) != 2 || keys[0] != "class" || keys[1] != "name" {
		t.Errorf("Keys() = %v, want [class name] in order", keys)
	}
	if layer.FeatureCount() != 1 {
		t.Errorf("FeatureCount() = %d, want 1", layer.FeatureCount())
	}
}

func TestParseLayerMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		spec layerSpec
		want string
	}{
		{"missing extent", layerSpec{name: "x", version: 1}, "extent"},
		{"missing version", layerSpec{name: "x", extent: 4096}, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf []byte
			buf = tagString(buf, layerFieldName, tt.spec.name)
			if tt.spec.extent != 0 {
				buf = tagVarint(buf, layerFieldExtent, uint64(tt.spec.extent))
			}
			if tt.spec.version != 0 {
				buf = tagVarint(buf, layerFieldVersion, uint64(tt.spec.version))
			}

			_, err := parseLayer(buf)
			if err == nil {
				t.Fatal("expected MissingRequiredField error")
			}
			var mvtErr *Error
			if !asError(err, &mvtErr) || mvtErr.Kind != KindMissingRequiredField || mvtErr.Field != tt.want {
				t.Errorf("error = %v, want MissingRequiredField{%s}", err, tt.want)
			}
		})
	}
}

func TestLayerFeatureViewBounds(t *testing.T) {
	buf := buildLayer(layerSpec{name: "x", version: 2, extent: 4096})
	layer, err := parseLayer(buf)
	if err != nil {
		t.Fatalf("parseLayer() error = %v", err)
	}
	if _, err := layer.FeatureView(0); err == nil {
		t.Fatal("expected IndexOutOfRange error")
	}
}

func TestLayerDuplicateKeys(t *testing.T) {
	buf := buildLayer(layerSpec{
		name:    "x",
		version: 2,
		extent:  4096,
		keys:    []string{"color", "size", "color"},
	})
	layer, err := parseLayer(buf)
	if err != nil {
		t.Fatalf("parseLayer() error = %v", err)
	}
	indices := layer.keyIndex["color"]
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 2 {
		t.Errorf("keyIndex[color] = %v, want [0 2]", indices)
	}
}
