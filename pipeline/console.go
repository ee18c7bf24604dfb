package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonwraymond/ragteam/agent"
	"github.com/jonwraymond/ragteam/format"
)

// Console presents run progress to a human.
type Console interface {
	RunStarted(topic string, at time.Time)
	StageStarted(info StageInfo, topic string, at time.Time)
	StageOutput(info StageInfo, output string)
	StageResult(info StageInfo, res *agent.Result)
	StageCompleted(info StageInfo, at time.Time, d time.Duration)
	Saved(what, path string)
	RunCompleted(topic string, at time.Time, reportFile, stepsFile string)
	RunFailed(err error, partialLog string)
}

// DefaultWrapWidth is the Markdown wrap width of a TerminalConsole.
const DefaultWrapWidth = 100

var stageColors = map[Stage]lipgloss.Color{
	StageResearch:   lipgloss.Color("4"),
	StageEvaluation: lipgloss.Color("2"),
	StageAppraisal:  lipgloss.Color("3"),
	StageReport:     lipgloss.Color("1"),
}

var outputColors = map[Stage]lipgloss.Color{
	StageResearch:   lipgloss.Color("6"),
	StageEvaluation: lipgloss.Color("5"),
	StageAppraisal:  lipgloss.Color("3"),
	StageReport:     lipgloss.Color("15"),
}

// TerminalConsole renders progress with styled panels and Markdown output.
type TerminalConsole struct {
	mu       sync.Mutex
	w        io.Writer
	verbose  bool
	renderer *glamour.TermRenderer

	bold  lipgloss.Style
	dim   lipgloss.Style
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
}

var _ Console = (*TerminalConsole)(nil)

// NewTerminalConsole writes to w. In verbose mode full agent results are
// printed after each stage.
func NewTerminalConsole(w io.Writer, verbose bool, wrap int) *TerminalConsole {
	if wrap <= 0 {
		wrap = DefaultWrapWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		renderer = nil
	}
	return &TerminalConsole{
		w:        w,
		verbose:  verbose,
		renderer: renderer,
		bold:     lipgloss.NewStyle().Bold(true),
		dim:      lipgloss.NewStyle().Faint(true),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		ok:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		warn:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		fail:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

func (c *TerminalConsole) printf(f string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, f, args...)
}

// markdown renders md, falling back to the raw text.
func (c *TerminalConsole) markdown(md string) string {
	if c.renderer == nil {
		return md
	}
	out, err := c.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}

func (c *TerminalConsole) RunStarted(topic string, at time.Time) {
	c.printf("%s\n%s %s\n%s %s\n\n%s\n",
		c.title.Render("# Research Process Started"),
		c.bold.Render("Topic:"), topic,
		c.bold.Render("Started at:"), format.DisplayTime(at),
		c.bold.Render("Process Overview:"))
	for _, s := range Stages {
		info := s.Info()
		c.printf("%d. %s %s\n", info.Number, c.bold.Render(info.Phase+":"), overview[s])
	}
	c.printf("\n")
}

var overview = map[Stage]string{
	StageResearch:   "Web searches and information gathering",
	StageEvaluation: "Critical assessment of source quality and findings",
	StageAppraisal:  "Meta-analysis of research methodology and limitations",
	StageReport:     "Synthesis of findings into comprehensive final report",
}

func (c *TerminalConsole) StageStarted(info StageInfo, topic string, at time.Time) {
	color := stageColors[info.Stage]
	banner := info.Banner
	if info.Stage == StageResearch {
		banner += ": " + topic
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Bold(true).
		Foreground(color).
		Render(banner)

	c.printf("%s\n%s\n%s\n\n",
		panel,
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(info.Phase),
		c.dim.Render(fmt.Sprintf("- Process: %s\n- Agent Instructions: %s\n- Started: %s",
			info.Process, info.Instructions, format.DisplayTime(at))))
}

func (c *TerminalConsole) StageOutput(info StageInfo, output string) {
	heading := lipgloss.NewStyle().Bold(true).Foreground(outputColors[info.Stage]).Render("## " + info.OutputTitle)
	c.printf("%s\n%s\n", heading, c.markdown(output))
}

func (c *TerminalConsole) StageResult(info StageInfo, res *agent.Result) {
	if !c.verbose {
		return
	}
	c.printf("%s\n%s\n", c.dim.Render("[Full "+info.Stage.String()+" result]"), res.String())
}

func (c *TerminalConsole) StageCompleted(info StageInfo, at time.Time, d time.Duration) {
	c.printf("%s\n\n%s\n\n",
		c.dim.Render(fmt.Sprintf("[%s step duration: %ss]", info.Stage, format.Seconds(d))),
		c.dim.Render(fmt.Sprintf("%s completed at: %s\nDuration: %s seconds", info.Phase, format.DisplayTime(at), format.Seconds(d))))
}

func (c *TerminalConsole) Saved(what, path string) {
	c.printf("%s\n", c.ok.Render(what+" saved to: "+path))
}

func (c *TerminalConsole) RunCompleted(topic string, at time.Time, reportFile, stepsFile string) {
	c.printf("\n%s\n%s %s\n%s %s\n%s\n- Report: %s\n- Process log: %s\n",
		c.title.Render("# Research Process Completed"),
		c.bold.Render("Topic:"), topic,
		c.bold.Render("Completed at:"), format.DisplayTime(at),
		c.bold.Render("Output files:"),
		reportFile, stepsFile)
}

func (c *TerminalConsole) RunFailed(err error, partialLog string) {
	c.printf("%s\n", c.fail.Render("Error during pipeline execution: "+err.Error()))
	if partialLog != "" {
		c.printf("%s\n", c.warn.Render("Partial process log saved to: "+partialLog))
	}
}

// NopConsole discards all output.
type NopConsole struct{}

var _ Console = NopConsole{}

func (NopConsole) RunStarted(string, time.Time)                       {}
func (NopConsole) StageStarted(StageInfo, string, time.Time)          {}
func (NopConsole) StageOutput(StageInfo, string)                      {}
func (NopConsole) StageResult(StageInfo, *agent.Result)               {}
func (NopConsole) StageCompleted(StageInfo, time.Time, time.Duration) {}
func (NopConsole) Saved(string, string)                               {}
func (NopConsole) RunCompleted(string, time.Time, string, string)     {}
func (NopConsole) RunFailed(error, string)                            {}
