package feed

import (
	"fmt"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

const (
	LoadingMessage = "Fetching latest projects from GitHub..."
	LiveTitle      = "Latest GitHub Projects"
	FallbackTitle  = "Featured Projects"
	FallbackNotice = "Unable to load projects from GitHub. Showing fallback projects."
)

// FallbackCards is the hand-authored set shown when the live feed cannot be
// built. It is never empty. Each call returns a fresh slice.
func FallbackCards(user string) []models.Card {
	return []models.Card{
		{
			Name:        "banking-payment-apis",
			Title:       "Banking Payment APIs",
			Description: "RESTful APIs for SEPA and International payments handling millions of transactions daily with high scalability and reliability.",
			Tech:        []string{"Java 17", "Spring Boot 3", "Azure", "PostgreSQL"},
			SourceURL:   fmt.Sprintf("https://github.com/%s", user),
			Image:       "https://picsum.photos/seed/banking/600/400",
		},
	}
}
