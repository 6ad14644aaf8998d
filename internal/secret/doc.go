// Package secret holds passphrases and derived key material in memory that
// is zeroed before it is released.
//
// [Buffer] is a growable byte buffer. On Linux its storage is an anonymous
// mmap region outside the Go heap, locked into RAM where the memlock limit
// allows and excluded from core dumps, so the garbage collector never copies
// it. When a Buffer grows, the old region is zeroed before it is unmapped.
// Close zeroes the whole region and releases it; after Close any access
// panics.
//
// [PassphraseReader] fills a Buffer from a stream with byte-exact fidelity
// and strips the trailing line terminator.
package secret
