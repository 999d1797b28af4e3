package mvt

import "testing"

func layerWithFeature(t *testing.T, keys []string, values [][]byte, tags []uint32) (*Layer, *Feature) {
	t.Helper()
	feat := buildFeature(featureSpec{tags: tags, geomType: GeomPoint})
	buf := buildLayer(layerSpec{
		name:     "poi",
		version:  2,
		extent:   4096,
		keys:     keys,
		values:   values,
		features: [][]byte{feat},
	})
	layer, err := parseLayer(buf)
	if err != nil {
		t.Fatalf("parseLayer() error = %v", err)
	}
	feature, err := layer.Feature(0)
	if err != nil {
		t.Fatalf("Feature(0) error = %v", err)
	}
	return layer, feature
}

func TestFeatureGetValue(t *testing.T) {
	_, f := layerWithFeature(t,
		[]string{"name", "color"},
		[][]byte{buildValueString("Pike Place"), buildValueString("red")},
		[]uint32{0, 0, 1, 1},
	)

	val, warn, err := f.GetValue("name")
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if warn != NoWarning {
		t.Errorf("warning = %v, want NoWarning", warn)
	}
	if val.Str != "Pike Place" {
		t.Errorf("GetValue(name) = %+v", val)
	}

	missing, _, err := f.GetValue("nope")
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if missing.Kind != ValueNull {
		t.Errorf("GetValue(nope) = %+v, want Null", missing)
	}
}

func TestFeatureGetValueDuplicateKeyWarning(t *testing.T) {
	// "color" appears at key-indices 0 and 2; the tag stream points
	// at index 2 first.
	_, f := layerWithFeature(t,
		[]string{"color", "size", "color"},
		[][]byte{buildValueString("blue"), buildValueString("m")},
		[]uint32{2, 0, 1, 1},
	)

	val, warn, err := f.GetValue("color")
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if warn != WarningDuplicateKeys {
		t.Errorf("warning = %v, want WarningDuplicateKeys", warn)
	}
	if val.Str != "blue" {
		t.Errorf("GetValue(color) = %+v", val)
	}
}

func TestFeatureProperties(t *testing.T) {
	_, f := layerWithFeature(t,
		[]string{"name", "color"},
		[][]byte{buildValueString("Pike Place"), buildValueString("red")},
		[]uint32{0, 0, 1, 1},
	)

	props, err := f.Properties()
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 2 || props["name"].Str != "Pike Place" || props["color"].Str != "red" {
		t.Errorf("Properties() = %+v", props)
	}
}

func TestFeatureUnevenTags(t *testing.T) {
	_, f := layerWithFeature(t, []string{"name"}, [][]byte{buildValueString("x")}, []uint32{0})

	if _, err := f.Properties(); err == nil {
		t.Fatal("expected UnevenTags error")
	} else {
		var mvtErr *Error
		if !asError(err, &mvtErr) || mvtErr.Kind != KindUnevenTags {
			t.Errorf("error = %v, want UnevenTags", err)
		}
	}
}

func TestFeatureValueIndexOutOfRange(t *testing.T) {
	_, f := layerWithFeature(t, []string{"name"}, [][]byte{buildValueString("x")}, []uint32{0, 5})

	if _, err := f.Properties(); err == nil {
		t.Fatal("expected ValueIndexOutOfRange error")
	} else {
		var mvtErr *Error
		if !asError(err, &mvtErr) || mvtErr.Kind != KindValueIndexOutOfRange {
			t.Errorf("error = %v, want ValueIndexOutOfRange", err)
		}
	}
}

func TestFeatureDefaultTypeUnknown(t *testing.T) {
	feat := buildFeature(featureSpec{})
	buf := buildLayer(layerSpec{name: "x", version: 2, extent: 4096, features: [][]byte{feat}})
	layer, _ := parseLayer(buf)
	f, err := layer.Feature(0)
	if err != nil {
		t.Fatalf("Feature(0) error = %v", err)
	}
	if f.Type() != GeomUnknown {
		t.Errorf("Type() = %v, want GeomUnknown", f.Type())
	}
	if f.ID().Kind != IdentifierNull {
		t.Errorf("ID() = %+v, want IdentifierNull", f.ID())
	}
}
