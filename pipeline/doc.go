// Package pipeline drives the four research stages in order and records
// what happened.
//
// A run moves through Research, Evaluation, Appraisal and Report, feeding
// each stage's output to the next. Every stage is timed and described in a
// Markdown process log. On success the report and the log are written to
// disk; on failure the partial log is flushed with the error appended and
// the error is returned.
package pipeline
