package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "mutate.dev/pkg/mutate/internal/model"
)

// messageWidth bounds the message column of the report table.
const messageWidth = 60

// Score thresholds for the score line color.
const (
	goodScore = 80.0
	fairScore = 50.0
)

// SimpleUI implements UI with plain tables written to the command output.
// Styles degrade to plain text when the output is not a terminal.
type SimpleUI struct {
	cmd *cobra.Command

	title lipgloss.Style
	good  lipgloss.Style
	fair  lipgloss.Style
	poor  lipgloss.Style
	faint lipgloss.Style
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	renderer := lipgloss.NewRenderer(cmd.OutOrStdout())

	return &SimpleUI{
		cmd:   cmd,
		title: renderer.NewStyle().Bold(true),
		good:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		fair:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		poor:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		faint: renderer.NewStyle().Faint(true),
	}
}

// DisplayCounts prints a table of mutant counts.
func (s *SimpleUI) DisplayCounts(ctx context.Context, counts []m.MutantCount) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(counts) == 0 {
		s.printf("No mutation targets.\n")
		return nil
	}

	s.printf("\n%s", renderCountTable(counts))

	return nil
}

func renderCountTable(counts []m.MutantCount) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Operator", "Mutants"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	files := make(map[m.Path]struct{})
	total := 0

	for _, count := range counts {
		table.Append([]string{string(count.File), count.Operator, strconv.Itoa(count.Count)})

		files[count.File] = struct{}{}
		total += count.Count
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		"",
		strconv.Itoa(total),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayMutants prints the diff of every mutant.
func (s *SimpleUI) DisplayMutants(ctx context.Context, mutants []m.Mutant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range mutants {
		path := ""
		if mutant.Source.Origin != nil {
			path = string(mutant.Source.Origin.ShortPath)
		}

		s.printf("%s\n", s.title.Render(fmt.Sprintf("%s #%d %s", mutant.Label(), mutant.Index, path)))
		s.printf("%s\n", mutant.DiffCode)
	}

	s.printf("%d mutants\n", len(mutants))

	return nil
}

// DisplayReport prints the mutants the suite did not kill and the summary.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n", s.title.Render("Campaign "+report.CampaignID))

	if table, ok := renderSurvivorTable(report.Results); ok {
		s.printf("\n%s\n", table)
	}

	summary := report.Summary
	s.printf("Total: %d | Killed: %d | Survived: %d | Errored: %d\n",
		summary.Total, summary.Killed, summary.Survived, summary.Errored)
	s.printf("%s\n", s.scoreStyle(summary.Score).Render(fmt.Sprintf("Mutation score: %.2f%%", summary.Score)))

	return nil
}

func renderSurvivorTable(results []m.MutantResult) (string, bool) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Operator", "Index", "Status", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	rows := 0

	for _, result := range results {
		status := result.Status()
		if status == m.Killed {
			continue
		}

		message := ""
		if status == m.Errored {
			message = lastLine(result.Message, messageWidth)
		}

		table.Append([]string{string(result.File), result.Operator, strconv.Itoa(result.Index), status.String(), message})

		rows++
	}

	if rows == 0 {
		return "", false
	}

	table.Render()

	return tableBuffer.String(), true
}

// DisplayReportSaved prints where the report was written.
func (s *SimpleUI) DisplayReportSaved(ctx context.Context, path m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", s.faint.Render("Report saved to "+string(path)))
}

func (s *SimpleUI) scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= goodScore:
		return s.good
	case score >= fairScore:
		return s.fair
	default:
		return s.poor
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// lastLine returns the last non-empty line of text, cut to width runes.
func lastLine(text string, width int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	line := strings.TrimSpace(lines[len(lines)-1])

	if runes := []rune(line); len(runes) > width {
		return string(runes[:width-1]) + "…"
	}

	return line
}
