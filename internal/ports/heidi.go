package ports

import "github.com/debarchive/britney/internal/archive"

// HeidiWriterPort renders the target suite's final accepted state
// (spec.md §6 HeidiResult/HeidiDelta).
type HeidiWriterPort interface {
	// WriteHeidiResult writes one line per accepted binary
	// ("<bin> <ver> <arch> <section>") and per source
	// ("<src> <ver> source <section>"), sorted lexicographically, faux
	// packages excluded.
	WriteHeidiResult(path string, target *archive.Suite, fauxPackages map[string]bool) error

	// WriteHeidiDelta writes one line per accepted item in acceptance
	// order: "<src> <ver>" for an addition, "-<src> <ver>" for a removal,
	// with an arch suffix for per-arch items.
	WriteHeidiDelta(path string, accepted []archive.MigrationItem) error
}
