package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/ragteam/agent"
	"github.com/jonwraymond/ragteam/format"
	"github.com/jonwraymond/ragteam/observe"
)

const (
	// DefaultOutputDir holds report files.
	DefaultOutputDir = "output"

	// DefaultStepsDir holds process logs.
	DefaultStepsDir = "steps_taken"
)

// Agents are the agents run by each stage.
type Agents struct {
	Research   *agent.Agent
	Evaluation *agent.Agent
	Appraisal  *agent.Agent
	Report     *agent.Agent
}

// DefaultAgents returns the standard agents, giving tools to the research
// agent.
func DefaultAgents(tools ...agent.Tool) Agents {
	return Agents{
		Research:   agent.Research(tools...),
		Evaluation: agent.Evaluation(),
		Appraisal:  agent.Appraisal(),
		Report:     agent.Report(),
	}
}

func (a Agents) forStage(s Stage) *agent.Agent {
	switch s {
	case StageResearch:
		return a.Research
	case StageEvaluation:
		return a.Evaluation
	case StageAppraisal:
		return a.Appraisal
	case StageReport:
		return a.Report
	default:
		return nil
	}
}

// Config controls where a run writes its files.
type Config struct {
	OutputDir string
	StepsDir  string
	// OutputFile overrides the generated report path.
	OutputFile string
}

func (c Config) withDefaults() Config {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.StepsDir == "" {
		c.StepsDir = DefaultStepsDir
	}
	return c
}

// Outcome describes a finished run.
type Outcome struct {
	RunID      string
	Topic      string
	ReportFile string
	StepsFile  string
	Outputs    map[Stage]string
	Results    map[Stage]*agent.Result
	Durations  map[Stage]time.Duration
	// Final is the terminal stage the run reached.
	Final Stage
}

// Option configures a Runner.
type Option func(*Runner)

// WithConsole sets the console. The default prints nothing.
func WithConsole(c Console) Option {
	return func(r *Runner) {
		if c != nil {
			r.console = c
		}
	}
}

// WithObserver wraps each stage with telemetry.
func WithObserver(m *observe.Middleware) Option {
	return func(r *Runner) {
		r.obs = m
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner executes the four stages in order.
//
// Contract:
//   - Stages run strictly in sequence; a stage starts only after the
//     previous one returned.
//   - No stage is retried. The first failing stage ends the run.
//   - A Runner holds no per-run state and may be reused.
type Runner struct {
	agents  agent.Runner
	set     Agents
	console Console
	obs     *observe.Middleware
	now     func() time.Time
}

// New creates a pipeline over an agent runner.
func New(r agent.Runner, agents Agents, opts ...Option) (*Runner, error) {
	if r == nil {
		return nil, ErrNilRunner
	}
	for _, s := range Stages {
		if agents.forStage(s) == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingAgent, s)
		}
	}
	p := &Runner{
		agents:  r,
		set:     agents,
		console: NopConsole{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// run is the mutable state of one execution.
type run struct {
	topic   string
	log     *ProcessLog
	outcome *Outcome
}

// Run executes the pipeline for topic and writes the report and the process
// log. On failure the partial log is written and the stage error returned.
func (p *Runner) Run(ctx context.Context, topic string, cfg Config) (*Outcome, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	cfg = cfg.withDefaults()

	started := p.now()
	stamp := format.Timestamp(started)
	name := format.SanitizeFilename(topic, format.DefaultFilenameLength)

	reportFile := cfg.OutputFile
	if reportFile == "" {
		reportFile = filepath.Join(cfg.OutputDir, name+"_"+stamp+".md")
	}
	stepsFile := filepath.Join(cfg.StepsDir, name+"_steps_"+stamp+".md")

	for _, dir := range []string{cfg.OutputDir, cfg.StepsDir, filepath.Dir(reportFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("pipeline: creating %s: %w", dir, err)
		}
	}

	id := uuid.NewString()
	r := &run{
		topic: topic,
		log:   NewProcessLog(topic, id, started),
		outcome: &Outcome{
			RunID:     id,
			Topic:     topic,
			Outputs:   make(map[Stage]string, len(Stages)),
			Results:   make(map[Stage]*agent.Result, len(Stages)),
			Durations: make(map[Stage]time.Duration, len(Stages)),
		},
	}

	log := p.obs.Logger().With(observe.F("run_id", id))
	log.Info(ctx, "pipeline started", observe.F("topic", topic))
	p.console.RunStarted(topic, started)

	state := StageResearch
	var runErr error
	for !state.Terminal() {
		if err := p.runStage(ctx, r, state); err != nil {
			runErr = fmt.Errorf("%w: %s: %w", ErrStageFailed, state, err)
			log.Error(ctx, "pipeline failed", observe.F("stage", state.String()), observe.F("error", runErr))
			state = StageFailed
			continue
		}
		state = state.Next()
	}
	r.outcome.Final = state
	if state == StageFailed {
		return nil, p.fail(r, runErr, stepsFile)
	}

	report := r.outcome.Outputs[StageReport]
	if err := os.WriteFile(reportFile, []byte(report), 0o644); err != nil {
		err = fmt.Errorf("pipeline: writing report: %w", err)
		log.Error(ctx, "pipeline failed", observe.F("error", err))
		return nil, p.fail(r, err, stepsFile)
	}
	p.console.Saved("Report", reportFile)
	if err := os.WriteFile(stepsFile, []byte(r.log.String()), 0o644); err != nil {
		return nil, fmt.Errorf("pipeline: writing process log: %w", err)
	}
	p.console.Saved("Process log", stepsFile)

	r.outcome.ReportFile = reportFile
	r.outcome.StepsFile = stepsFile
	p.console.RunCompleted(topic, p.now(), reportFile, stepsFile)
	log.Info(ctx, "pipeline completed",
		observe.F("report_file", reportFile),
		observe.F("steps_file", stepsFile),
		observe.F("duration_ms", p.now().Sub(started).Milliseconds()),
	)
	return r.outcome, nil
}

// stageInput builds the input of stage s from the previous outputs.
func stageInput(s Stage, topic string, outputs map[Stage]string) string {
	switch s {
	case StageResearch:
		return topic
	case StageEvaluation:
		return outputs[StageResearch]
	case StageAppraisal:
		return outputs[StageEvaluation]
	case StageReport:
		return fmt.Sprintf("Research Summary:\n%s\n\nEvaluation:\n%s\n\nAppraisal:\n%s\n\nCreate a comprehensive research report on: %s",
			outputs[StageResearch], outputs[StageEvaluation], outputs[StageAppraisal], topic)
	default:
		return ""
	}
}

// fail records err in the process log, writes the log best-effort and
// returns err.
func (p *Runner) fail(r *run, err error, stepsFile string) error {
	r.log.Error(err)
	partial := ""
	if werr := os.WriteFile(stepsFile, []byte(r.log.String()), 0o644); werr == nil {
		partial = stepsFile
	}
	p.console.RunFailed(err, partial)
	return err
}

func (p *Runner) runStage(ctx context.Context, r *run, s Stage) error {
	info := s.Info()
	a := p.set.forStage(s)
	input := stageInput(s, r.topic, r.outcome.Outputs)

	start := p.now()
	r.log.StageStarted(info, r.topic, start)
	p.console.StageStarted(info, r.topic, start)

	meta := observe.CallMeta{Kind: observe.KindStage, Name: s.String()}
	res, err := observe.Call(ctx, p.obs, meta, func(ctx context.Context) (*agent.Result, error) {
		return p.agents.Run(ctx, a, input)
	})
	if err != nil {
		return err
	}
	if res == nil {
		res = &agent.Result{Agent: a.Name}
	}

	if s == StageResearch {
		r.log.ResearchDetails(res.ToolCalls)
	}
	p.console.StageOutput(info, res.FinalOutput)
	p.console.StageResult(info, res)

	end := p.now()
	d := end.Sub(start)
	r.log.StageCompleted(info, end, d)
	p.console.StageCompleted(info, end, d)

	r.outcome.Outputs[s] = res.FinalOutput
	r.outcome.Results[s] = res
	r.outcome.Durations[s] = d
	return nil
}
