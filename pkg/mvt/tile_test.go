package mvt

import "testing"

func TestTileEmpty(t *testing.T) {
	tile, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if names := tile.LayerNames(); len(names) != 0 {
		t.Errorf("LayerNames() = %v, want empty", names)
	}
}

func TestTileLayerNamesSortedAndDeduplicated(t *testing.T) {
	layerA := buildLayer(layerSpec{name: "water", version: 2, extent: 4096})
	layerB := buildLayer(layerSpec{name: "roads", version: 2, extent: 4096})
	layerADup := buildLayer(layerSpec{name: "water", version: 2, extent: 2048})

	buf := buildTile(layerA, layerB, layerADup)

	tile, err := New(buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	names := tile.LayerNames()
	want := []string{"roads", "water"}
	if len(names) != len(want) {
		t.Fatalf("LayerNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("LayerNames()[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	// Last write wins on duplicate layer names.
	layer, err := tile.GetLayer("water")
	if err != nil {
		t.Fatalf("GetLayer() error = %v", err)
	}
	if layer.Extent() != 2048 {
		t.Errorf("Extent() = %d, want 2048 (last write should win)", layer.Extent())
	}
}

func TestTileGetLayerNotFound(t *testing.T) {
	tile, _ := New(nil)
	_, err := tile.GetLayer("missing")
	if err == nil {
		t.Fatal("expected error for missing layer")
	}
	var mvtErr *Error
	if !asError(err, &mvtErr) || mvtErr.Kind != KindLayerNotFound {
		t.Errorf("error = %v, want KindLayerNotFound", err)
	}
}

func TestTileMissingLayerName(t *testing.T) {
	layerNoName := tagVarint(nil, layerFieldExtent, 4096)
	buf := buildTile(layerNoName)

	_, err := New(buf)
	if err == nil {
		t.Fatal("expected MissingLayerName error")
	}
	var mvtErr *Error
	if !asError(err, &mvtErr) || mvtErr.Kind != KindMissingLayerName {
		t.Errorf("error = %v, want KindMissingLayerName", err)
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
