// Package playback resolves catalog tracks into a playable queue,
// choosing local files for downloaded tracks and streaming URLs
// otherwise. The actual audio engine lives behind the Transport
// interface and is provided by the host shell.
package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/dharmaapp/dharma-core/internal/domain"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

// Transport is the host audio engine the resolver feeds.
type Transport interface {
	Enqueue(items []QueueItem, startIndex int) error
	Play() error
	Pause() error
	SeekTo(position time.Duration) error
	SkipNext() error
	SkipPrevious() error
	Progress() (position, duration time.Duration, err error)
}

// QueueItem is one resolved playable entry.
type QueueItem struct {
	ID    string
	Title string
	// Source is a local file path when Local is true, otherwise a
	// streaming URL.
	Source string
	Local  bool
}

// Catalog is the slice of the audio proxy the resolver reads from.
type Catalog interface {
	GetDetail(ctx context.Context, id string) (*domain.AudioCollectionDetail, error)
}

// OfflineIndex answers local-file questions for downloaded tracks.
type OfflineIndex interface {
	OfflinePath(id string) (string, bool)
	TouchLastPlayed(id string)
}

// Streamer builds the remote URL for a track asset.
type Streamer interface {
	AssetURL(id string) string
}

// Connectivity reports whether streaming is currently possible.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Resolver builds play queues from collection details.
type Resolver struct {
	catalog Catalog
	offline OfflineIndex
	assets  Streamer
	network Connectivity
	logger  *slog.Logger
}

// NewResolver creates a playback resolver.
func NewResolver(catalog Catalog, offline OfflineIndex, assets Streamer, network Connectivity, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		catalog: catalog,
		offline: offline,
		assets:  assets,
		network: network,
		logger:  logger,
	}
}

// Resolve builds the queue for a collection and returns it with the
// index of the requested track.
//
// Downloaded tracks resolve to their local files. When the device is
// offline the queue is filtered to downloaded tracks only; tracks that
// would need streaming are dropped. Resolving fails when the requested
// track itself is not playable.
func (r *Resolver) Resolve(ctx context.Context, collectionID, trackID string) ([]QueueItem, int, error) {
	if collectionID == "" || trackID == "" {
		return nil, 0, apperrors.InvalidArgument("collection id and track id are required")
	}

	detail, err := r.catalog.GetDetail(ctx, collectionID)
	if err != nil {
		return nil, 0, err
	}

	online := r.network.Online(ctx)
	queue := make([]QueueItem, 0, len(detail.Audios))
	startIndex := -1

	for _, item := range detail.Audios {
		assetID := item.AssetID()
		if assetID == "" {
			continue
		}

		entry := QueueItem{ID: assetID, Title: item.Title}
		if path, ok := r.offline.OfflinePath(assetID); ok {
			entry.Source = path
			entry.Local = true
		} else if online {
			entry.Source = r.assets.AssetURL(assetID)
		} else {
			if assetID == trackID {
				return nil, 0, apperrors.Network("track " + trackID + " is not downloaded and the device is offline")
			}
			continue
		}

		if assetID == trackID {
			startIndex = len(queue)
		}
		queue = append(queue, entry)
	}

	if startIndex < 0 {
		return nil, 0, apperrors.NotFound("track " + trackID + " not in collection " + collectionID)
	}
	return queue, startIndex, nil
}

// PlayTrack resolves the queue and hands it to the transport. A local
// start track gets its last-played time stamped.
func (r *Resolver) PlayTrack(ctx context.Context, transport Transport, collectionID, trackID string) error {
	queue, startIndex, err := r.Resolve(ctx, collectionID, trackID)
	if err != nil {
		return err
	}

	if queue[startIndex].Local {
		r.offline.TouchLastPlayed(trackID)
	}

	if err := transport.Enqueue(queue, startIndex); err != nil {
		return apperrors.WrapInternal(err, "enqueue playback queue")
	}
	if err := transport.Play(); err != nil {
		return apperrors.WrapInternal(err, "start playback")
	}

	r.logger.Info("playback started",
		"collection", collectionID,
		"track", trackID,
		"queue", len(queue),
		"local", queue[startIndex].Local,
	)
	return nil
}
