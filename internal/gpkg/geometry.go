package gpkg

import (
	"encoding/binary"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// GeoPackage geometry blobs are a fixed header (magic "GP", version,
// flags, srs_id), an optional envelope, then standard WKB.

// envelope sizes in bytes, indexed by the envelope contents indicator
// from the flags byte
var envelopeSizes = [5]int{0, 32, 48, 48, 64}

func decodeGeometry(blob []byte) (geom.Geometry, int, error) {
	if len(blob) < 8 || blob[0] != 'G' || blob[1] != 'P' {
		return geom.Geometry{}, 0, fmt.Errorf("not a GeoPackage geometry blob")
	}
	flags := blob[3]
	var order binary.ByteOrder = binary.BigEndian
	if flags&0x01 != 0 {
		order = binary.LittleEndian
	}
	srid := int(int32(order.Uint32(blob[4:8])))

	envCode := int(flags>>1) & 0x07
	if envCode >= len(envelopeSizes) {
		return geom.Geometry{}, 0, fmt.Errorf("invalid envelope indicator %d", envCode)
	}
	offset := 8 + envelopeSizes[envCode]
	if len(blob) < offset {
		return geom.Geometry{}, 0, fmt.Errorf("truncated geometry header")
	}

	// empty-geometry flag: no WKB payload required
	if flags&0x10 != 0 && len(blob) == offset {
		return geom.Geometry{}, srid, nil
	}

	g, err := geom.UnmarshalWKB(blob[offset:])
	if err != nil {
		return geom.Geometry{}, 0, fmt.Errorf("decode WKB: %w", err)
	}
	return g, srid, nil
}

func encodeGeometry(g geom.Geometry, srid int) []byte {
	wkb := g.AsBinary()
	out := make([]byte, 8, 8+len(wkb))
	out[0], out[1] = 'G', 'P'
	out[2] = 0    // version 1
	out[3] = 0x01 // little-endian header, no envelope
	binary.LittleEndian.PutUint32(out[4:8], uint32(int32(srid)))
	return append(out, wkb...)
}
