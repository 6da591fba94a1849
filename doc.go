// Package jlstream reassembles JSON-Lines records from a stream of text
// chunks whose boundaries are uncorrelated with record boundaries. A record
// split across chunks is buffered until its final fragment arrives; complete
// records are emitted exactly once, in input order.
//
// Components:
//   - Decoder[R]: the incremental reassembler. One pending-fragment buffer;
//     feed a line, get back at most one record.
//   - Collect: the drain loop. Pulls chunks from a source.Source, splits them
//     into lines (buffering partial lines across chunk boundaries) and feeds
//     the decoder.
//   - Query[R]: optional query layer. Opens a remote object via a
//     source.Opener, drains it, filters records client-side and caches the
//     decoded result set in a provider.Provider using a codec.Codec[R].
//
// Keys owned by the query layer:
//
//	query:<ns>:<hash>  - cached result batches (hash over bucket|key|predicate)
//
// A Decoder is strictly sequential and not safe for concurrent use; decode
// independent streams with independent Decoder instances.
package jlstream
