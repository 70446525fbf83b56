package domain

// OfflineTrack records one downloaded audio asset.
// Keyed by ID; one active download per asset.
// A record is only valid while its Path resolves to an existing file.
type OfflineTrack struct {
	ID           string `json:"id"`
	CategoryID   string `json:"categoryId"`
	Path         string `json:"path"`
	Title        string `json:"title"`
	LastPlayedAt int64  `json:"lastPlayedAt,omitempty"`
}
