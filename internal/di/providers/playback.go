package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/catalog"
	"github.com/dharmaapp/dharma-core/internal/cms"
	"github.com/dharmaapp/dharma-core/internal/download"
	"github.com/dharmaapp/dharma-core/internal/playback"
)

// ProvidePlaybackResolver provides the play-queue resolver.
func ProvidePlaybackResolver(i do.Injector) (*playback.Resolver, error) {
	audio := do.MustInvoke[*catalog.AudioService](i)
	manager := do.MustInvoke[*download.Manager](i)
	client := do.MustInvoke[*cms.Client](i)
	monitor := do.MustInvoke[*MonitorHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return playback.NewResolver(audio, manager, client, monitor, log), nil
}
