// Package pipeline drives one build from source collection to artifact
// publication.
//
// A run moves through a fixed sequence of stages:
//
//	idle -> collecting -> compiling -> (resetting-output-dir) ->
//	writing-results -> writing-contracts -> fetching-external -> finalizing
//
// The output directory is only reset when the run covers the project's
// default pattern. Compiler diagnostics never abort a run; they are reported
// in the Result. Everything else that goes wrong is returned as a
// *StageError naming the stage it happened in.
package pipeline
