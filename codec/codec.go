// Package codec defines how record values are (de)serialized for cache
// storage. The query layer encodes each record of a result batch with the
// configured codec and frames the batch separately (internal/wire), so a
// codec only ever sees one value at a time.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
