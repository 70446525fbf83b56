// Package domain contains the catalog entry types cached by the sync core.
//
// Every entry is identified by an opaque CMS id. Fields tagged as
// local-only (download flags, paths, reading progress, last-played
// times) exist only on-device and must survive server refreshes.
package domain

// AudioCollection is a sermon collection or category as listed by the CMS.
type AudioCollection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCategory  bool   `json:"isCategory,omitempty"`
	Description string `json:"description"`
}

// AudioItem is a single track inside a collection detail.
// The first element of Audio is the asset id the track is downloaded by.
type AudioItem struct {
	Audio []string `json:"audio"`
	Title string   `json:"title"`

	// Local-only fields.
	IsDownloadable bool   `json:"isDownloadable,omitempty"`
	Path           string `json:"path,omitempty"`
}

// AssetID returns the downloadable asset id of the item, or "" if none.
func (a AudioItem) AssetID() string {
	if len(a.Audio) == 0 {
		return ""
	}
	return a.Audio[0]
}

// AudioCollectionDetail is a fully expanded collection with its tracks.
type AudioCollectionDetail struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Audios     []AudioItem `json:"audios"`
	IsCategory bool        `json:"isCategory,omitempty"`
}

// Book is an e-book catalog entry.
type Book struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	FirstChapterID string `json:"firstChapterId"`
	PageTotal      int    `json:"pageTotal,omitempty"`

	// Local-only fields.
	IsDownloaded bool   `json:"isDownload,omitempty"`
	Path         string `json:"path,omitempty"`
	PageCurrent  int    `json:"pageCurrent,omitempty"`
}

// Center is a meditation center directory entry.
type Center struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Image     string  `json:"image,omitempty"`
	Phone     string  `json:"phone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VideoCollection is a video category listing entry.
type VideoCollection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// VideoItem is a single video inside a collection detail.
type VideoItem struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// VideoCollectionDetail is a fully expanded video category.
type VideoCollectionDetail struct {
	ID     string      `json:"id"`
	Videos []VideoItem `json:"videos"`
}
