package health

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Report is the serializable outcome of a round of checks.
type Report struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Checks    []CheckReport `json:"checks"`
}

// CheckReport is the serializable outcome of one check.
type CheckReport struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// NewReport builds a report from results, ordered as agg registered them.
func NewReport(agg *Aggregator, results map[string]Result) Report {
	r := Report{
		Status:    OverallStatus(results).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make([]CheckReport, 0, len(results)),
	}
	for _, name := range agg.CheckerNames() {
		result, ok := results[name]
		if !ok {
			continue
		}
		check := CheckReport{
			Name:     name,
			Status:   result.Status.String(),
			Message:  result.Message,
			Duration: result.Duration.Round(time.Millisecond).String(),
			Details:  result.Details,
		}
		if result.Error != nil {
			check.Error = result.Error.Error()
		}
		r.Checks = append(r.Checks, check)
	}
	return r
}

// Healthy reports whether no check was Unhealthy.
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy.String()
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes one aligned line per check followed by the overall status.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range r.Checks {
		line := c.Message
		if c.Error != "" {
			line += ": " + c.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Status, c.Duration, line)
	}
	fmt.Fprintf(tw, "overall\t%s\t\t\n", r.Status)
	return tw.Flush()
}
