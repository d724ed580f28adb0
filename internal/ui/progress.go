package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase represents a stage in the generation pipeline
type Phase string

const (
	PhaseScanning    Phase = "Scanning"
	PhaseParsing     Phase = "Parsing"
	PhaseClassifying Phase = "Classifying"
	PhaseGenerating  Phase = "Generating"
	PhaseReporting   Phase = "Reporting"
)

// DefaultPhases is the phase order used by the generate command.
var DefaultPhases = []Phase{PhaseScanning, PhaseParsing, PhaseClassifying, PhaseGenerating, PhaseReporting}

// ProgressBar wraps progressbar with the phase label.
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

func newBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)
	return &ProgressBar{bar: bar, phase: phase}
}

// Increment advances the bar by one
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Describe shows the item currently being processed next to the phase label.
func (pb *ProgressBar) Describe(item string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, item))
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Phase returns the phase this bar tracks.
func (pb *ProgressBar) Phase() Phase {
	return pb.phase
}

// Pipeline tracks progress through a fixed sequence of phases.
// A disabled pipeline still hands out bars; they write to io.Discard.
type Pipeline struct {
	phases   []Phase
	current  int
	active   *ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a pipeline writing to stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a pipeline with custom output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		output:  output,
	}
}

// Disable suppresses all progress output
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the running phase and starts the next one.
// It returns nil once every phase has been started.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	if p.current >= len(p.phases) {
		p.active = nil
		return nil
	}

	out := p.output
	if p.disabled {
		out = io.Discard
	}
	if total < 1 {
		total = 1
	}
	p.active = newBar(p.phases[p.current], total, out)
	return p.active
}

// Finish completes the running phase, if any
func (p *Pipeline) Finish() {
	if p.active != nil {
		p.active.Finish()
	}
}

// PrintSummary prints a line after the bars unless disabled
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}
