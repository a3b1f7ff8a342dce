// Package compiler turns a source set into compiled contract units and a
// flat list of diagnostics.
//
// The Compiler interface is what the pipeline depends on; Solc is the
// implementation backed by the solc binary's standard-JSON mode. Diagnostics
// are plain strings classified as warnings or errors by Classify.
package compiler
