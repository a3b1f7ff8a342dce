package pipeline

import "fmt"

// Stage names a step of a pipeline run.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageCollecting    Stage = "collecting"
	StageCompiling     Stage = "compiling"
	StageResetting     Stage = "resetting-output-dir"
	StageWritingResult Stage = "writing-results"
	StageWritingUnits  Stage = "writing-contracts"
	StageFetching      Stage = "fetching-external"
	StageFinalizing    Stage = "finalizing"
)

// StageError is a fatal failure inside a stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
