package cms

import (
	"context"

	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// audioData is the CMS shape of an audio collection entry.
type audioData struct {
	Name        invariant[string]             `json:"name"`
	IsCategory  invariant[bool]               `json:"isCategory"`
	Description invariant[string]             `json:"description"`
	Audios      invariant[[]domain.AudioItem] `json:"audios"`
}

// FetchAudioCategory lists the audio collections under one category.
// An empty categoryID requests the root listing.
func (c *Client) FetchAudioCategory(ctx context.Context, categoryID string) ([]domain.AudioCollection, error) {
	var resp itemsResponse[audioData]
	if err := c.get(ctx, c.filterByCategory("/audios", categoryID), &resp); err != nil {
		return nil, err
	}

	collections := make([]domain.AudioCollection, 0, len(resp.Items))
	for _, item := range resp.Items {
		collections = append(collections, domain.AudioCollection{
			ID:          item.ID,
			Name:        item.Data.Name.IV,
			IsCategory:  item.Data.IsCategory.IV,
			Description: item.Data.Description.IV,
		})
	}
	return collections, nil
}

// FetchAudioDetail retrieves one audio collection with its track list.
func (c *Client) FetchAudioDetail(ctx context.Context, id string) (*domain.AudioCollectionDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument("collection id is required")
	}

	var item contentItem[audioData]
	if err := c.get(ctx, c.endpoint("/audios/"+id), &item); err != nil {
		return nil, err
	}

	return &domain.AudioCollectionDetail{
		ID:         item.ID,
		Name:       item.Data.Name.IV,
		Audios:     item.Data.Audios.IV,
		IsCategory: item.Data.IsCategory.IV,
	}, nil
}
