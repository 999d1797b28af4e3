package mvt

import "testing"

func points[C Coordinate](xy ...C) []Point[C] {
	pts := make([]Point[C], 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		pts = append(pts, Point[C]{X: xy[i], Y: xy[i+1]})
	}
	return pts
}

func assertPaths[C Coordinate](t *testing.T, got *GeometryCollection[C], want [][]Point[C]) {
	t.Helper()
	if len(got.Paths) != len(want) {
		t.Fatalf("Paths = %+v, want %+v", got.Paths, want)
	}
	for i := range want {
		if len(got.Paths[i]) != len(want[i]) {
			t.Fatalf("Paths[%d] = %+v, want %+v", i, got.Paths[i], want[i])
		}
		for j := range want[i] {
			if got.Paths[i][j] != want[i][j] {
				t.Errorf("Paths[%d][%d] = %+v, want %+v", i, j, got.Paths[i][j], want[i][j])
			}
		}
	}
}

func TestDecodeGeometryPoint(t *testing.T) {
	words := []uint32{cmdWord(cmdMoveTo, 1), zigzag32(25), zigzag32(17)}
	got, err := decodeGeometry[int32](words, GeomPoint, 1)
	if err != nil {
		t.Fatalf("decodeGeometry() error = %v", err)
	}
	assertPaths(t, got, [][]Point[int32]{points[int32](25, 17)})
}

func TestDecodeGeometryLineString(t *testing.T) {
	words := []uint32{
		cmdWord(cmdMoveTo, 1), zigzag32(2), zigzag32(2),
		cmdWord(cmdLineTo, 2), zigzag32(0), zigzag32(8), zigzag32(8), zigzag32(0),
	}
	got, err := decodeGeometry[int32](words, GeomLineString, 1)
	if err != nil {
		t.Fatalf("decodeGeometry() error = %v", err)
	}
	assertPaths(t, got, [][]Point[int32]{points[int32](2, 2, 2, 10, 10, 10)})
}

func TestDecodeGeometryPolygonClosePath(t *testing.T) {
	words := []uint32{
		cmdWord(cmdMoveTo, 1), zigzag32(0), zigzag32(0),
		cmdWord(cmdLineTo, 2), zigzag32(10), zigzag32(0), zigzag32(-5), zigzag32(10),
		cmdWord(cmdClosePath, 1),
	}
	got, err := decodeGeometry[int32](words, GeomPolygon, 1)
	if err != nil {
		t.Fatalf("decodeGeometry() error = %v", err)
	}
	assertPaths(t, got, [][]Point[int32]{
		points[int32](0, 0, 10, 0, 5, 10, 0, 0),
	})
}

func TestDecodeGeometryZeroCountNoOp(t *testing.T) {
	words := []uint32{cmdWord(cmdMoveTo, 0)}
	got, err := decodeGeometry[int32](words, GeomPoint, 1)
	if err != nil {
		t.Fatalf("decodeGeometry() error = %v", err)
	}
	assertPaths(t, got, [][]Point[int32]{{}})
}

func TestDecodeGeometryCleanTerminationAtBoundary(t *testing.T) {
	// A huge declared repeat count, but the word stream happens to end
	// exactly after one full parameter pair: not an error, just a
	// shorter-than-declared result.
	words := []uint32{cmdWord(cmdLineTo, 1_000_000), zigzag32(1), zigzag32(1)}
	got, err := decodeGeometry[int32](words, GeomLineString, 1)
	if err != nil {
		t.Fatalf("decodeGeometry() error = %v", err)
	}
	assertPaths(t, got, [][]Point[int32]{points[int32](1, 1)})
}

func TestDecodeGeometryTruncatedMidPair(t *testing.T) {
	words := []uint32{
		cmdWord(cmdLineTo, 2), zigzag32(1), zigzag32(1), zigzag32(2),
	}
	_, err := decodeGeometry[int32](words, GeomLineString, 1)
	if err == nil {
		t.Fatal("expected TruncatedParameters error")
	}
	var mvtErr *Error
	if !asError(err, &mvtErr) || mvtErr.Kind != KindTruncatedParameters {
		t.Errorf("error = %v, want TruncatedParameters", err)
	}
}

func TestDecodeGeometryCoordinateOutOfRange(t *testing.T) {
	words := []uint32{cmdWord(cmdMoveTo, 1), zigzag32(40000), zigzag32(0)}
	_, err := decodeGeometry[int16](words, GeomPoint, 1)
	if err == nil {
		t.Fatal("expected CoordinateOutOfRange error")
	}
	var mvtErr *Error
	if !asError(err, &mvtErr) || mvtErr.Kind != KindCoordinateOutOfRange {
		t.Errorf("error = %v, want CoordinateOutOfRange", err)
	}
}

func TestDecodeGeometryUnknownCommand(t *testing.T) {
	words := []uint32{cmdWord(5, 1)}
	_, err := decodeGeometry[int32](words, GeomPoint, 1)
	if err == nil {
		t.Fatal("expected UnknownCommand error")
	}
	var mvtErr *Error
	if !asError(err, &mvtErr) || mvtErr.Kind != KindUnknownCommand {
		t.Errorf("error = %v, want UnknownCommand", err)
	}
}

func TestDecodeGeometryMultiPointMoveToNoPanic(t *testing.T) {
	// A hostile LineString whose MoveTo carries more than one point:
	// three MoveTo points accumulate into the current path before the
	// first LineTo recomputes its reserve from LineTo's own count (1),
	// which must not end up smaller than the 3 points already emitted.
	words := []uint32{
		cmdWord(cmdMoveTo, 3),
		zigzag32(0), zigzag32(0),
		zigzag32(1), zigzag32(1),
		zigzag32(1), zigzag32(1),
		cmdWord(cmdLineTo, 1), zigzag32(1), zigzag32(1),
	}
	got, err := decodeGeometry[int32](words, GeomLineString, 1)
	if err != nil {
		t.Fatalf("decodeGeometry() error = %v", err)
	}
	assertPaths(t, got, [][]Point[int32]{
		points[int32](0, 0, 1, 1, 2, 2, 3, 3),
	})
}

func TestClampReserve(t *testing.T) {
	if got := clampReserve(10); got != 10 {
		t.Errorf("clampReserve(10) = %d, want 10", got)
	}
	if got := clampReserve(10_000_000); got != maxReserve {
		t.Errorf("clampReserve(10_000_000) = %d, want %d", got, maxReserve)
	}
}
