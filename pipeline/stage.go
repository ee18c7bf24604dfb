package pipeline

import "fmt"

// Stage is a state of a pipeline run.
type Stage int

const (
	StageResearch Stage = iota
	StageEvaluation
	StageAppraisal
	StageReport
	StageDone
	StageFailed
)

// Stages lists the working stages in execution order.
var Stages = []Stage{StageResearch, StageEvaluation, StageAppraisal, StageReport}

func (s Stage) String() string {
	switch s {
	case StageResearch:
		return "research"
	case StageEvaluation:
		return "evaluation"
	case StageAppraisal:
		return "appraisal"
	case StageReport:
		return "report"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Next returns the stage that follows s. Terminal stages return themselves.
func (s Stage) Next() Stage {
	switch s {
	case StageResearch:
		return StageEvaluation
	case StageEvaluation:
		return StageAppraisal
	case StageAppraisal:
		return StageReport
	case StageReport:
		return StageDone
	default:
		return s
	}
}

// StageInfo describes a working stage for the console and the process log.
type StageInfo struct {
	Stage  Stage
	Number int
	// Banner is the panel title printed when the stage starts.
	Banner string
	// Phase names the stage in headings, e.g. "Research Phase".
	Phase        string
	Process      string
	Instructions string
	// OutputTitle heads the rendered stage output.
	OutputTitle string
	// Output describes the stage output in the log.
	Output string
}

// Info returns the description of s. Terminal stages return a zero value.
func (s Stage) Info() StageInfo {
	switch s {
	case StageResearch:
		return StageInfo{
			Stage: s, Number: 1,
			Banner:       "STEP 1/4: Researching Topic",
			Phase:        "Research Phase",
			Process:      "Using search tools to gather relevant information",
			Instructions: "Break down topic, conduct searches with appropriate tools",
			OutputTitle:  "Research Summary",
			Output:       "Research summary with key findings and sources",
		}
	case StageEvaluation:
		return StageInfo{
			Stage: s, Number: 2,
			Banner:       "STEP 2/4: Evaluation",
			Phase:        "Evaluation Phase",
			Process:      "Critically assessing the quality and credibility of research findings",
			Instructions: "Apply CRAAP test to sources, evaluate research quality",
			OutputTitle:  "Evaluation",
			Output:       "Critical evaluation of sources and research quality",
		}
	case StageAppraisal:
		return StageInfo{
			Stage: s, Number: 3,
			Banner:       "STEP 3/4: Critical Appraisal",
			Phase:        "Critical Appraisal Phase",
			Process:      "Meta-analysis of research methodology and limitations",
			Instructions: "Identify biases, analyze methodological soundness, detect knowledge gaps",
			OutputTitle:  "Critical Appraisal",
			Output:       "Analysis of methodological strengths/weaknesses and knowledge gaps",
		}
	case StageReport:
		return StageInfo{
			Stage: s, Number: 4,
			Banner:       "STEP 4/4: Generating Final Report",
			Phase:        "Report Generation Phase",
			Process:      "Synthesizing all findings into comprehensive final report",
			Instructions: "Create well-structured report with executive summary and key sections",
			OutputTitle:  "Final Report",
			Output:       "Final comprehensive research report",
		}
	default:
		return StageInfo{Stage: s}
	}
}
