package strip

import "errors"

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageParameters Stage = "parameters"
	StageColor      Stage = "color parse"
	StageDecode     Stage = "decode"
	StageResize     Stage = "resize"
	StageComposite  Stage = "composite"
	StageEncode     Stage = "encode"
	StageWrite      Stage = "write"
)

// StageError is the single error a failed run reports. Err keeps the
// underlying cause, so errors.Is still matches the imaging sentinels.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return string(e.Stage) + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the stage of err, or "" when err did not come from a pipeline.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

func fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
