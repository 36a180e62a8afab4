package models

// DefaultArtistColor is used when no metadata exists for an artist.
const DefaultArtistColor = "#7D56F4"

// ArtistProfile is the identity metadata bound to one fact table.
type ArtistProfile struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Color    string `json:"color" yaml:"color"`
	ImageURL string `json:"image_url" yaml:"image_url"`
}

// Artist pairs a profile with its materialized fact table.
type Artist struct {
	Profile ArtistProfile
	Table   *FactTable
	Source  string // file path or database the table was read from
}

// ArtistSummary is the home-page card for one artist.
type ArtistSummary struct {
	Profile      ArtistProfile `json:"profile"`
	TotalStreams int64         `json:"total_streams"`
	Records      int           `json:"records"`
}
