// Package display renders the recent-tickets query as a color-coded
// terminal table. It is a pure presentation layer: it never touches
// the store.
package display

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/store"
)

// Column truncation limits.
const (
	customerMaxLen = 15
	summaryMaxLen  = 45
)

var (
	colorRed       = lipgloss.Color("1")
	colorGreen     = lipgloss.Color("2")
	colorYellow    = lipgloss.Color("3")
	colorBlue      = lipgloss.Color("4")
	colorMagenta   = lipgloss.Color("5")
	colorCyan      = lipgloss.Color("6")
	colorWhite     = lipgloss.Color("7")
	colorGray      = lipgloss.Color("8")
	colorBrightRed = lipgloss.Color("9")
	colorDarkGreen = lipgloss.Color("22")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)

	emptyPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorYellow).
			Foreground(colorYellow).
			Padding(0, 1)
)

// Render writes the recent-tickets view to w, framed by blank lines.
// An empty slice renders an informational panel instead of a table.
// When highlightID matches a row's ticket id, that row (first match
// only) gets a distinct background. Rendering errors are echoed in
// error styling and returned.
func Render(w io.Writer, tickets []store.RecentTicket, highlightID int64) error {
	var body string
	if len(tickets) == 0 {
		body = renderEmpty()
	} else {
		body = renderTable(tickets, highlightID)
	}

	if _, err := fmt.Fprintf(w, "\n%s\n\n", body); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error displaying tickets: "+err.Error()))
		return err
	}
	return nil
}

func renderEmpty() string {
	return emptyPanelStyle.Render("No tickets found. Process your first ticket!")
}

func renderTable(tickets []store.RecentTicket, highlightID int64) string {
	rows := make([][]string, len(tickets))
	styles := make([][]lipgloss.Style, len(tickets))

	highlighted := false
	for i, ticket := range tickets {
		rows[i] = []string{
			strconv.FormatInt(ticket.ID, 10),
			Truncate(ticket.CustomerName, customerMaxLen),
			Truncate(ticket.Summary, summaryMaxLen),
			formatCategory(ticket.Category),
			formatPriority(ticket.Priority),
			formatSentiment(ticket.SentimentScore),
		}
		styles[i] = []lipgloss.Style{
			dimStyle,
			lipgloss.NewStyle(),
			lipgloss.NewStyle(),
			lipgloss.NewStyle().Foreground(categoryColor(ticket.Category)),
			priorityStyle(ticket.Priority),
			lipgloss.NewStyle().Foreground(sentimentColor(ticket.SentimentScore)),
		}
		if !highlighted && highlightID != 0 && ticket.ID == highlightID {
			highlighted = true
			for col := range styles[i] {
				styles[i][col] = styles[i][col].Background(colorDarkGreen)
			}
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "Customer", "Summary", "Category", "Priority", "Sentiment").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return styles[row][col].Padding(0, 1)
		})

	title := titleStyle.Render(fmt.Sprintf("Recent Tickets (Last %d)", len(tickets)))
	return title + "\n" + tbl.Render()
}

// Truncate cuts s to at most max runes, replacing the tail with a
// three-character ellipsis. Strings at or below max are untouched; the
// result never exceeds max.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// formatCategory turns the stored value into a display label, e.g.
// "feature_request" -> "Feature Request".
func formatCategory(category domain.Category) string {
	words := strings.Split(strings.ReplaceAll(string(category), "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func categoryColor(category domain.Category) lipgloss.Color {
	switch category {
	case domain.CategoryBilling:
		return colorCyan
	case domain.CategoryTechnical:
		return colorMagenta
	case domain.CategoryFeatureRequest:
		return colorBlue
	case domain.CategoryGeneral:
		return colorWhite
	}
	return colorWhite
}

func formatPriority(priority domain.Priority) string {
	return strings.ToUpper(string(priority))
}

func priorityStyle(priority domain.Priority) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(priorityColor(priority))
	if strings.EqualFold(string(priority), string(domain.PriorityCritical)) {
		style = style.Bold(true)
	}
	return style
}

func priorityColor(priority domain.Priority) lipgloss.Color {
	switch priority {
	case domain.PriorityCritical:
		return colorBrightRed
	case domain.PriorityHigh:
		return colorRed
	case domain.PriorityMedium:
		return colorYellow
	case domain.PriorityLow:
		return colorGreen
	}
	return colorWhite
}

// formatSentiment renders the score as a truncated integer percentage
// with a tier emoji, e.g. "15% 😞".
func formatSentiment(score float64) string {
	return fmt.Sprintf("%d%% %s", int(score*100), sentimentEmoji(score))
}

// Sentiment tiers: score < 0.4 negative, < 0.6 neutral, else positive.
func sentimentEmoji(score float64) string {
	switch {
	case score < 0.4:
		return "😞"
	case score < 0.6:
		return "😐"
	default:
		return "😊"
	}
}

func sentimentColor(score float64) lipgloss.Color {
	switch {
	case score < 0.4:
		return colorRed
	case score < 0.6:
		return colorYellow
	default:
		return colorGreen
	}
}
