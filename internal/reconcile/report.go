package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bardeteleon/financial-analysis/internal/config"
)

var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	accountStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	validStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	invalidStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	amountStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
)

// Report renders the interval outcomes grouped per account, one line per
// interval, followed by a summary line per account and an overall summary.
// Invalid intervals additionally show the discrepancy.
func Report(intervals []Interval, cfg config.Config) string {
	perAccount, overall := Summarize(intervals)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Reconciliation"))
	b.WriteString("\n")

	current := ""
	for _, iv := range intervals {
		if iv.AccountID != current {
			if current != "" {
				b.WriteString(summaryLine(perAccount[current]))
			}
			current = iv.AccountID
			b.WriteString(accountStyle.Render(cfg.AccountName(iv.AccountID)))
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(fmt.Sprintf("%s .. %s  ", formatDate(iv.From), formatDate(iv.To)))
		b.WriteString(statusStyle(iv.Status).Render(iv.Status.String()))
		b.WriteString(fmt.Sprintf("  %d transactions", iv.Transactions))
		if iv.Status == StatusInvalid {
			b.WriteString("  ")
			b.WriteString(amountStyle.Render("off by " + iv.Discrepancy().StringFixed(2)))
		}
		b.WriteString("\n")
	}
	if current != "" {
		b.WriteString(summaryLine(perAccount[current]))
	}

	b.WriteString(headerStyle.Render("Overall"))
	b.WriteString("\n")
	b.WriteString(summaryLine(overall))
	return b.String()
}

func summaryLine(s Summary) string {
	style := validStyle
	if s.Invalid > 0 {
		style = invalidStyle
	} else if s.Unchecked > 0 {
		style = uncheckedStyle
	}
	text := fmt.Sprintf("  Summary: %d valid, %d invalid, %d unchecked transactions", s.Valid, s.Invalid, s.Unchecked)
	return style.Render(text) + "\n"
}

func statusStyle(s Status) lipgloss.Style {
	switch s {
	case StatusValid:
		return validStyle
	case StatusInvalid:
		return invalidStyle
	default:
		return uncheckedStyle
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "          "
	}
	return t.Format("2006-01-02")
}
