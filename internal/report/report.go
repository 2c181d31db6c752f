// Package report renders run results for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/driverisk/internal/pipeline"
	"github.com/abhisek/driverisk/internal/pricing"
	"github.com/abhisek/driverisk/internal/risk"
)

const (
	summaryTitle = "==== Insurance Summary ===="
	summaryRule  = "=========================="
)

// Summary renders the insurance summary block.
func Summary(s pipeline.Summary) string {
	tier := TierStyle(s.Quote.Tier)

	lines := []string{
		"",
		Title.Render(summaryTitle),
		fmt.Sprintf("Processed %d trips", s.Processed()),
		Label.Render("Average Risk Score:") + " " + tier.Render(fmt.Sprintf("%.2f", s.AverageRisk)),
		Label.Render("Premium:") + " " + tier.Render(pricing.FormatCurrency(s.Quote.Premium)),
		Label.Render("Advice:") + " " + s.Advice,
		Hint.Render(fmt.Sprintf("Run %s: %d collected, %d dropped", s.RunID, s.Collected, s.Dropped)),
		Title.Render(summaryRule),
		"",
	}
	return strings.Join(lines, "\n")
}

// Trips renders one table row per scored trip.
func Trips(assessments []risk.Assessment) string {
	rows := make([][]string, len(assessments))
	for i, a := range assessments {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(a.SpeedKmh),
			strconv.Itoa(a.HardBrakes),
			a.Weather,
			a.Traffic,
			strconv.Itoa(a.Group),
			yesNo(a.Risky),
			fmt.Sprintf("%.2f", a.Score),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers("#", "Speed", "Brakes", "Weather", "Traffic", "Group", "Risky", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Header
			}
			if row >= 0 && row < len(assessments) && assessments[row].Risky {
				return RiskyCell
			}
			return Cell
		})
	return t.Render()
}

// Assessment renders a single scored trip with its quote, for one-off scoring.
func Assessment(a risk.Assessment, q pricing.Quote, advice string) string {
	tier := TierStyle(q.Tier)
	lines := []string{
		Title.Render("==== Trip Assessment ===="),
		fmt.Sprintf("Over speed: %s | Excess braking: %s | Risky: %s",
			yesNo(a.OverSpeed), yesNo(a.ExcessBraking), yesNo(a.Risky)),
		fmt.Sprintf("Base risk: %.2f | Group %d adjusted: %.2f", a.BaseRisk, a.Group, a.ClusterAdjusted),
		Label.Render("Risk Score:") + " " + tier.Render(fmt.Sprintf("%.2f", a.Score)),
		Label.Render("Tier:") + " " + q.Tier.DisplayName(),
		Label.Render("Premium:") + " " + tier.Render(pricing.FormatCurrency(q.Premium)),
		Label.Render("Advice:") + " " + advice,
	}
	return strings.Join(lines, "\n")
}

// Fprintln writes rendered output to w, dropping colors the writer can't show.
func Fprintln(w io.Writer, s string) error {
	_, err := lipgloss.Fprintln(w, s)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
