package huffman

import "errors"

// errShortStream is returned internally when the bitstream runs out before
// the decoder has produced the expected number of symbols; Decode reports
// it to callers as ErrCorruptStream.
var errShortStream = errors.New("huffman: bitstream ended before expected output length")

// ErrCorruptStream is returned by Decode when the compressed bytes cannot
// be a well-formed encoding of the header's own frequency table.
var ErrCorruptStream = errors.New("huffman: corrupt compressed stream")
