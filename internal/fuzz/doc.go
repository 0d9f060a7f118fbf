// Package fuzztests houses the Go fuzz harness for the template decoder.
//
// FuzzDecode feeds arbitrary bytes through pack.DecodeFile for both variants
// and checks the span and length invariants of every accepted template, and
// the error shape (no partial result, detail inside span, one diagnostic) of
// every rejected one. Seeds are the repository testdata plus every letter of
// the directive table combined with each modifier tail.
package fuzztests
