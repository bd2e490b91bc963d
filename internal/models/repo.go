package models

import "time"

// Repo is one repository as returned by GET /users/{user}/repos.
type Repo struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	Topics      []string  `json:"topics"`
	HomepageURL *string   `json:"homepage"`
	URL         string    `json:"html_url"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	Fork        bool      `json:"fork"`
	Archived    bool      `json:"archived"`
}

// Card is the display projection of a Repo. Cards are built once and not
// mutated afterwards.
type Card struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tech        []string  `json:"tech"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
	Updated     string    `json:"updated,omitempty"`
	SourceURL   string    `json:"source_url"`
	LiveURL     string    `json:"live_url,omitempty"`
	Image       string    `json:"image"`
}

// HasStats reports whether the card came from live data. Hand-authored
// fallback cards carry no star/fork/date line.
func (c Card) HasStats() bool {
	return c.Updated != ""
}
