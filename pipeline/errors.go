package pipeline

import "errors"

var (
	// ErrStageFailed wraps the error of the stage that ended a run.
	ErrStageFailed = errors.New("pipeline: stage failed")

	// ErrEmptyTopic is returned when Run is called without a topic.
	ErrEmptyTopic = errors.New("pipeline: topic is empty")

	// ErrNilRunner is returned by New when no agent runner is given.
	ErrNilRunner = errors.New("pipeline: agent runner is nil")

	// ErrMissingAgent is returned by New when an agent is not configured.
	ErrMissingAgent = errors.New("pipeline: agent is missing")
)
