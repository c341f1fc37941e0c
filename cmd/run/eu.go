package run

import (
	"tum/internal/conf"
	"tum/internal/eu"
	"tum/internal/flog"
)

// startEU launches the dialer pool and, if enabled, the AutoSync client,
// and blocks until stop fires.
func startEU(stop <-chan struct{}, cfg *conf.EUConfig, t *conf.Tunables) {
	flog.Infof("eu: starting with pool size %d toward %s:%d", cfg.PoolSize, cfg.IranIP, cfg.BridgePort)

	eu.StartDialerPool(stop, cfg.PoolSize, cfg, t)

	if cfg.EnableAutoSync {
		go eu.RunAutoSyncClient(stop, cfg, t)
	}

	<-stop
}
