package domain

// Listing is a remote job posting surfaced by the discovery feed. Listings are
// never persisted.
type Listing struct {
	ID       int      `json:"id"`
	Company  string   `json:"company"`
	Position string   `json:"position"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	URL      string   `json:"url"`
	Date     string   `json:"date"`
	Logo     string   `json:"logo"`
}
