package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/dharmaapp/dharma-core/internal/config"
	"github.com/dharmaapp/dharma-core/internal/network"
)

// MonitorHandle wraps the connectivity monitor with its probe loop.
type MonitorHandle struct {
	*network.Monitor
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *MonitorHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideNetworkMonitor provides the running connectivity monitor.
func ProvideNetworkMonitor(i do.Injector) (*MonitorHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	monitor := network.NewMonitor(cfg.Network.ProbeURL, cfg.Network.ProbeInterval, log)

	ctx, cancel := context.WithCancel(context.Background())
	go monitor.Run(ctx)

	return &MonitorHandle{Monitor: monitor, cancel: cancel}, nil
}
