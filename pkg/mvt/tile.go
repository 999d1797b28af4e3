// Package mvt decodes Mapbox Vector Tiles (MVT v1/v2) lazily: nothing
// beyond a layer's header is parsed until a caller asks for it. This
// file implements the top-level Tile type, the entry point into a
// decoded tile's layers.
package mvt

import (
	"sort"

	"github.com/paulmach/protoscan"
)

// Tile field numbers, per the MVT wire format.
const tileFieldLayers = 3

// Layer field numbers, per the MVT wire format.
const (
	layerFieldName     = 1
	layerFieldFeatures = 2
	layerFieldKeys     = 3
	layerFieldValues   = 4
	layerFieldExtent   = 5
	layerFieldVersion  = 15
)

// Tile is the parsed index of an MVT buffer: a mapping from layer
// name to the raw byte view of that layer's sub-message. Tile holds
// only references into the caller's buffer; the buffer must outlive
// the Tile and any Layer/Feature obtained from it.
type Tile struct {
	buf    []byte
	layers map[string][]byte
	order  []string
}

// New parses the top-level tile message: for every LAYERS field it
// opens a nested scanner just far enough to find that layer's NAME
// field, then records name -> layer view without descending further.
// Duplicate layer names: last write wins.
func New(buf []byte) (*Tile, error) {
	t := &Tile{
		buf:    buf,
		layers: make(map[string][]byte),
	}

	m := protoscan.New(buf)
	for m.Next() {
		if m.FieldNumber() != tileFieldLayers {
			if err := m.Skip(); err != nil {
				return nil, newErr(KindMalformed, "tile field", err)
			}
			continue
		}
		view, err := m.MessageData()
		if err != nil {
			return nil, newErr(KindMalformed, "tile layer view", err)
		}
		name, err := scanLayerName(view)
		if err != nil {
			return nil, err
		}
		if _, exists := t.layers[name]; !exists {
			t.order = append(t.order, name)
		}
		t.layers[name] = view
	}

	sort.Strings(t.order)
	return t, nil
}

// scanLayerName reads only as much of a layer sub-message as needed
// to find its NAME field.
func scanLayerName(view []byte) (string, error) {
	m := protoscan.New(view)
	for m.Next() {
		if m.FieldNumber() != layerFieldName {
			if err := m.Skip(); err != nil {
				return "", newErr(KindMalformed, "layer field", err)
			}
			continue
		}
		name, err := m.String()
		if err != nil {
			return "", newErr(KindMalformed, "layer name", err)
		}
		return name, nil
	}
	return "", &Error{Kind: KindMissingLayerName, Message: "layer has no name field"}
}

// LayerNames returns the tile's layer names in deterministic
// (lexicographic) order.
func (t *Tile) LayerNames() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Layers exposes the raw name -> byte view index for callers that
// want to iterate without the ordering guarantee of LayerNames.
func (t *Tile) Layers() map[string][]byte {
	return t.layers
}

// GetLayer fully parses the named layer on demand.
func (t *Tile) GetLayer(name string) (*Layer, error) {
	view, ok := t.layers[name]
	if !ok {
		return nil, &Error{Kind: KindLayerNotFound, Message: name}
	}
	return parseLayer(view)
}
