// Package ring provides the DMA-visible memory of the transfer engine: a
// single-slot staging mailbox and a K-slot ring buffer whose backing memory
// can be exported read-only to a consumer.
//
// The ring is backed by an anonymous memory file mapped shared into the
// engine and, on request, mapped a second time read-only for the consumer.
// Both views alias the same pages, so bytes written into a slot by the copy
// engine are visible through the consumer's mapping without a copy. Backing
// pages are locked (see [LockPolicy]) so they are never swapped out while a
// transfer targets them.
//
// Slot validity is implicit: the ring never marks a slot as filled. Callers
// learn that a slot is valid because the transfer that targeted it returned.
// Each slot also carries a generation counter, incremented by [Ring.Publish],
// that consumers may use to detect stale reads.
//
// Memory files and mappings require Linux; on other platforms every
// allocation fails with [pkg.ErrNotSupported].
package ring
