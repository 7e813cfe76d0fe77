// Package engine implements the dual-word proximity search.
//
// Given a text buffer and two words, the engine finds every occurrence of
// word1 followed by word2 within a bounded gap and reports the spans as
// byte offsets into the buffer. Each word1 occurrence (anchor) is paired
// with the nearest qualifying word2 occurrence after it, independently of
// every other anchor. Output is capped: once the cap is reached the scan
// stops and the result is marked truncated.
//
// The engine is a pure function of its inputs. An Engine value is
// immutable and safe for concurrent use as long as each call writes into
// its own destination slice or Arena.
//
// Results can be returned as a slice (Search, SearchInto) or packed into a
// fixed-capacity Arena of int32 records terminated by -1, the layout the
// browser host reads across its linear memory boundary.
package engine
