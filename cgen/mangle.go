package cgen

// prefix is prepended to every user identifier; gel has only one kind of
// name to mangle (user identifiers), so this is simpler than the
// multi-piece mangling a richer source language needs.
const prefix = "gel_"

// mangle returns the C identifier for a gel name. Every user-level name
// (function or variable) gets the same fixed prefix, so that none can
// collide with a C keyword or a symbol from the emitted preamble.
func mangle(name string) string {
	return prefix + name
}
