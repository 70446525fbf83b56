package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/cache"
	"github.com/dharmaapp/dharma-core/internal/catalog"
	"github.com/dharmaapp/dharma-core/internal/cms"
)

// ProvideAudioService provides the audio catalog proxy.
func ProvideAudioService(i do.Injector) (*catalog.AudioService, error) {
	c := do.MustInvoke[*cache.Cache](i)
	client := do.MustInvoke[*cms.Client](i)
	log := do.MustInvoke[*slog.Logger](i)

	return catalog.NewAudioService(c, client, log), nil
}

// ProvideBookService provides the book catalog proxy.
func ProvideBookService(i do.Injector) (*catalog.BookService, error) {
	c := do.MustInvoke[*cache.Cache](i)
	client := do.MustInvoke[*cms.Client](i)
	log := do.MustInvoke[*slog.Logger](i)

	return catalog.NewBookService(c, client, log), nil
}

// ProvideCenterService provides the center directory proxy.
func ProvideCenterService(i do.Injector) (*catalog.CenterService, error) {
	c := do.MustInvoke[*cache.Cache](i)
	client := do.MustInvoke[*cms.Client](i)
	log := do.MustInvoke[*slog.Logger](i)

	return catalog.NewCenterService(c, client, log), nil
}

// ProvideVideoService provides the video catalog proxy.
func ProvideVideoService(i do.Injector) (*catalog.VideoService, error) {
	c := do.MustInvoke[*cache.Cache](i)
	client := do.MustInvoke[*cms.Client](i)
	log := do.MustInvoke[*slog.Logger](i)

	return catalog.NewVideoService(c, client, log), nil
}
