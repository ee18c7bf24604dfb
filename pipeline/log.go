package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/ragteam/agent"
	"github.com/jonwraymond/ragteam/format"
)

// ProcessLog accumulates the Markdown record of a run.
type ProcessLog struct {
	mu    sync.Mutex
	lines []string
}

// NewProcessLog starts a log with the title and process overview.
func NewProcessLog(topic, runID string, at time.Time) *ProcessLog {
	l := &ProcessLog{}
	l.add(
		"# Research Process: "+topic,
		"*Generated on: "+format.DisplayTime(at)+"*",
		"*Run ID: "+runID+"*",
		"\n## Process Overview",
		"This document details the step-by-step process used by our AI research pipeline:",
		"1. **Research Phase**: Web searches and information gathering",
		"2. **Evaluation Phase**: Critical assessment of source quality and findings",
		"3. **Appraisal Phase**: Meta-analysis of research methodology and limitations",
		"4. **Report Phase**: Synthesis of findings into comprehensive final report",
		"\n## Detailed Process Log\n",
	)
	return l
}

func (l *ProcessLog) add(lines ...string) {
	l.mu.Lock()
	l.lines = append(l.lines, lines...)
	l.mu.Unlock()
}

// StageStarted records the start of a stage.
func (l *ProcessLog) StageStarted(info StageInfo, topic string, at time.Time) {
	lines := []string{fmt.Sprintf("### STEP %d: %s", info.Number, info.Phase)}
	if info.Stage == StageResearch {
		lines = append(lines, "- **Topic**: "+topic)
	}
	lines = append(lines,
		"- **Process**: "+info.Process,
		"- **Agent Instructions**: "+info.Instructions,
		"- **Started**: "+format.DisplayTime(at)+"\n",
	)
	l.add(lines...)
}

// ResearchDetails records the searches made by the research agent.
func (l *ProcessLog) ResearchDetails(calls []agent.ToolCall) {
	lines := []string{
		"#### Research Details:",
		"- Multiple search tools used to gather information from various sources",
		"- Search queries and sources processed by the research agent",
	}
	for _, c := range calls {
		lines = append(lines, fmt.Sprintf("  - `%s` %s", c.Name, c.Arguments))
	}
	l.add(lines...)
}

// StageCompleted records the end of a stage.
func (l *ProcessLog) StageCompleted(info StageInfo, at time.Time, d time.Duration) {
	l.add(
		"- **Completed**: "+format.DisplayTime(at),
		"- **Duration**: "+format.Seconds(d)+" seconds",
		"- **Output**: "+info.Output+"\n",
	)
}

// Error records the error that ended the run.
func (l *ProcessLog) Error(err error) {
	l.add("\n### ERROR: " + err.Error())
}

// String renders the log as Markdown.
func (l *ProcessLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
