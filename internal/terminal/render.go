// Package terminal prints a feed result as bordered cards.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
	"github.com/kevinmichaelchen/portfolio-feed/internal/pipeline"
)

const cardWidth = 72

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(cardWidth)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	techStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

func Render(w io.Writer, res pipeline.Result) error {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(res.Title))
	b.WriteString("\n")

	if len(res.Cards) == 0 {
		b.WriteString(mutedStyle.Render("No projects to show."))
		b.WriteString("\n")
	}
	for _, c := range res.Cards {
		b.WriteString(cardStyle.Render(renderCard(c)))
		b.WriteString("\n")
	}

	if res.Phase == pipeline.Fallback && res.Notice != "" {
		b.WriteString(bannerStyle.Render("! " + res.Notice))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderCard(c models.Card) string {
	lines := []string{
		titleStyle.Render(c.Title),
		c.Description,
	}
	if c.HasStats() {
		lines = append(lines, mutedStyle.Render(
			fmt.Sprintf("★ %d  ⑂ %d  updated %s", c.Stars, c.Forks, c.Updated)))
	}
	if len(c.Tech) > 0 {
		lines = append(lines, techStyle.Render(strings.Join(c.Tech, " · ")))
	}
	links := []string{"source: " + c.SourceURL}
	if c.LiveURL != "" {
		links = append(links, "demo: "+c.LiveURL)
	}
	lines = append(lines, mutedStyle.Render(strings.Join(links, "  ")))
	return strings.Join(lines, "\n")
}
