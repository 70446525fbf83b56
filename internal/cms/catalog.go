package cms

import (
	"context"

	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// bookData is the CMS shape of a book entry.
type bookData struct {
	Title       invariant[string]   `json:"title"`
	Description invariant[string]   `json:"description"`
	Book        invariant[[]string] `json:"book"`
	PageTotal   invariant[int]      `json:"pageTotal"`
}

// FetchBooks lists every book in the catalog.
// Fresh entries always start with cleared local-only fields; the
// proxies merge previously recorded download state back in.
func (c *Client) FetchBooks(ctx context.Context) ([]domain.Book, error) {
	var resp itemsResponse[bookData]
	if err := c.get(ctx, c.endpoint("/books"), &resp); err != nil {
		return nil, err
	}

	books := make([]domain.Book, 0, len(resp.Items))
	for _, item := range resp.Items {
		book := domain.Book{
			ID:          item.ID,
			Title:       item.Data.Title.IV,
			Description: item.Data.Description.IV,
			PageTotal:   item.Data.PageTotal.IV,
			PageCurrent: 1,
		}
		if len(item.Data.Book.IV) > 0 {
			book.FirstChapterID = item.Data.Book.IV[0]
		}
		books = append(books, book)
	}
	return books, nil
}

// centerLocation is the CMS geo-point shape.
type centerLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// centerData is the CMS shape of a meditation center entry.
type centerData struct {
	Name     invariant[string]         `json:"name"`
	Address  invariant[string]         `json:"address"`
	Phone    invariant[string]         `json:"phone"`
	Image    invariant[[]string]       `json:"image"`
	Location invariant[centerLocation] `json:"location"`
}

// FetchCenters lists the meditation center directory.
func (c *Client) FetchCenters(ctx context.Context) ([]domain.Center, error) {
	var resp itemsResponse[centerData]
	if err := c.get(ctx, c.endpoint("/centers"), &resp); err != nil {
		return nil, err
	}

	centers := make([]domain.Center, 0, len(resp.Items))
	for _, item := range resp.Items {
		center := domain.Center{
			ID:        item.ID,
			Name:      item.Data.Name.IV,
			Address:   item.Data.Address.IV,
			Phone:     item.Data.Phone.IV,
			Latitude:  item.Data.Location.IV.Latitude,
			Longitude: item.Data.Location.IV.Longitude,
		}
		if len(item.Data.Image.IV) > 0 {
			center.Image = c.AssetURL(item.Data.Image.IV[0])
		}
		centers = append(centers, center)
	}
	return centers, nil
}

// videoData is the CMS shape of a video category entry.
type videoData struct {
	Name        invariant[string]             `json:"name"`
	Description invariant[string]             `json:"description"`
	Videos      invariant[[]domain.VideoItem] `json:"videos"`
}

// FetchVideoCategories lists the video categories.
func (c *Client) FetchVideoCategories(ctx context.Context) ([]domain.VideoCollection, error) {
	var resp itemsResponse[videoData]
	if err := c.get(ctx, c.endpoint("/videos"), &resp); err != nil {
		return nil, err
	}

	categories := make([]domain.VideoCollection, 0, len(resp.Items))
	for _, item := range resp.Items {
		categories = append(categories, domain.VideoCollection{
			ID:          item.ID,
			Name:        item.Data.Name.IV,
			Description: item.Data.Description.IV,
		})
	}
	return categories, nil
}

// FetchVideoDetail retrieves one video category with its videos.
func (c *Client) FetchVideoDetail(ctx context.Context, id string) (*domain.VideoCollectionDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument("category id is required")
	}

	var item contentItem[videoData]
	if err := c.get(ctx, c.endpoint("/videos/"+id), &item); err != nil {
		return nil, err
	}

	return &domain.VideoCollectionDetail{
		ID:     item.ID,
		Videos: item.Data.Videos.IV,
	}, nil
}
