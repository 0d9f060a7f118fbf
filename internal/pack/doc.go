// Package pack decodes pack/unpack template strings ("C*", "S<2 a8 # header")
// into an ordered list of resolved directives.
//
// Decoding runs in one pass: a scanner isolates the raw span of each directive
// (letter plus trailing modifiers, or a whitespace run, or a comment), the
// resolver looks the letter up in the version's directive table and applies the
// modifiers, and the running text encoding of the template output is threaded
// across the whole scan. The first invalid directive aborts decoding with a
// typed *Error that carries the offending span; no partial result is returned.
//
// All state lives in one Decode call. The directive tables are built once at
// package initialisation and only read afterwards, so independent Decode calls
// may run concurrently without synchronisation.
package pack
