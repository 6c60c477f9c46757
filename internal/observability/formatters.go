// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/staffing-console/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs a human-readable pipeline summary.
func (p *Printer) PrintSummary(summary types.PipelineSummary) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total clients:   %d\n", summary.Total))
	sb.WriteString(fmt.Sprintf("Blocked:         %d\n", summary.Blocked))
	sb.WriteString(fmt.Sprintf("Active rate:     %.1f%%\n", summary.ActiveRate*100))
	sb.WriteString(fmt.Sprintf("Conversion rate: %.1f%%\n", summary.ConversionRate*100))

	if len(summary.ByStage) > 0 {
		sb.WriteString("\nBy stage:\n")
		stages := make([]types.Stage, 0, len(summary.ByStage))
		for stage := range summary.ByStage {
			stages = append(stages, stage)
		}
		sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
		for _, stage := range stages {
			sb.WriteString(fmt.Sprintf("  %-12s %d\n", stage, summary.ByStage[stage]))
		}
	}

	p.printBox("Pipeline Summary", sb.String())
}

// PrintClient outputs a client snapshot with its stage history.
func (p *Printer) PrintClient(client *types.PipelineClient) {
	if client == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Client:  %s\n", client.Name))
	sb.WriteString(fmt.Sprintf("Status:  %s\n", client.Status))
	if client.Blocked {
		sb.WriteString("Blocked: yes\n")
	}
	if client.HeldFromStage != "" {
		sb.WriteString(fmt.Sprintf("Held from: %s\n", client.HeldFromStage))
	}
	if client.BackedOutReason != "" {
		sb.WriteString(fmt.Sprintf("Backed out: %s\n", client.BackedOutReason))
	}

	if len(client.StageHistory) > 0 {
		sb.WriteString("\nHistory:\n")
		for _, event := range client.StageHistory {
			sb.WriteString(fmt.Sprintf("  %s  %s (%s)\n",
				event.EnteredAt.Format("2006-01-02 15:04"), event.Status, event.ChangedBy))
		}
	}

	p.printBox("Pipeline Client", sb.String())
}

// PrintDenial outputs a transition or action denial in a form an
// operator can act on.
func (p *Printer) PrintDenial(operation string, err error) {
	if err == nil {
		return
	}
	p.printBox("Denied: "+operation, err.Error())
}
