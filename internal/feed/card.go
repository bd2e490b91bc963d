package feed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

const (
	Ellipsis            = "..."
	NoDescription       = "No description available."
	DateLayout          = "Jan 2, 2006"
	DefaultCharCap      = 120
	DefaultTechLabelCap = 4
)

// Card maps one repository to its display card.
func (b *Builder) Card(r models.Repo) models.Card {
	c := models.Card{
		Name:        r.Name,
		Title:       Title(r.Name),
		Description: NoDescription,
		Tech:        TechLabels(r.Topics, deref(r.Language), b.opts.TechLabelCap),
		Stars:       r.Stars,
		Forks:       r.Forks,
		UpdatedAt:   r.UpdatedAt,
		Updated:     r.UpdatedAt.UTC().Format(DateLayout),
		SourceURL:   r.URL,
		LiveURL:     strings.TrimSpace(deref(r.HomepageURL)),
		Image:       b.images.Lookup(deref(r.Language)),
	}
	if hasDescription(r) {
		c.Description = Truncate(*r.Description, b.opts.DescriptionCharCap)
	}
	return c
}

// Title turns a repository slug into a heading: "banking-payment-api"
// becomes "Banking Payment Api". Only the first letter of each segment is
// touched.
func Title(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		if size == 0 {
			continue
		}
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}

// Truncate cuts s to limit runes and appends Ellipsis. Strings within the
// limit are returned unchanged.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + Ellipsis
}

// TechLabels builds the label row: topics in API order with the primary
// language in front unless a topic already names it. Labels are
// deduplicated case-insensitively and capped at limit.
func TechLabels(topics []string, language string, limit int) []string {
	labels := make([]string, 0, len(topics)+1)
	if language != "" && !lo.ContainsBy(topics, func(t string) bool {
		return strings.EqualFold(t, language)
	}) {
		labels = append(labels, language)
	}
	labels = append(labels, topics...)

	labels = lo.UniqBy(lo.Compact(labels), strings.ToLower)
	if len(labels) > limit {
		labels = labels[:limit]
	}
	return labels
}

func hasDescription(r models.Repo) bool {
	return r.Description != nil && strings.TrimSpace(*r.Description) != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
