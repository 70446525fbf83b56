package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/cms"
	"github.com/dharmaapp/dharma-core/internal/config"
)

// ProvideCMSClient provides the rate-limited CMS content client.
func ProvideCMSClient(i do.Injector) (*cms.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	return cms.NewClient(cfg.CMS, log), nil
}
