package pipeline

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/ragteam/agent"
)

func TestProcessLog_Skeleton(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	l := NewProcessLog("solar power", "run-1", at)

	info := StageResearch.Info()
	l.StageStarted(info, "solar power", at)
	l.ResearchDetails([]agent.ToolCall{{Name: "web_search", Arguments: `{"query":"solar"}`}})
	l.StageCompleted(info, at.Add(1500*time.Millisecond), 1500*time.Millisecond)

	eval := StageEvaluation.Info()
	l.StageStarted(eval, "solar power", at)

	got := l.String()
	for _, want := range []string{
		"# Research Process: solar power",
		"*Generated on: 2024-03-05 14:07:09*",
		"*Run ID: run-1*",
		"## Process Overview",
		"## Detailed Process Log",
		"### STEP 1: Research Phase",
		"- **Topic**: solar power",
		"- **Process**: Using search tools to gather relevant information",
		"#### Research Details:",
		"`web_search` {\"query\":\"solar\"}",
		"- **Duration**: 1.50 seconds",
		"- **Output**: Research summary with key findings and sources",
		"### STEP 2: Evaluation Phase",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q\n%s", want, got)
		}
	}
	if strings.Count(got, "- **Topic**:") != 1 {
		t.Error("topic line should only appear in the research step")
	}
}

func TestProcessLog_Error(t *testing.T) {
	l := NewProcessLog("t", "id", time.Now())
	l.Error(errors.New("model unavailable"))
	if !strings.HasSuffix(l.String(), "\n### ERROR: model unavailable") {
		t.Errorf("log does not end with the error:\n%s", l.String())
	}
}
