// Package store persists layouts on top of a [cache.Cache].
//
// [LayoutStore] encodes layouts with the document package and keys them
// through a [cache.Keyer]. [AsyncSaver] wraps a LayoutStore with a
// background writer so interactive hosts never block on storage; it
// satisfies interact.Saver.
package store
