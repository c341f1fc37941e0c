package run

import (
	"tum/internal/bridgepool"
	"tum/internal/conf"
	"tum/internal/flog"
	"tum/internal/ir"
	"tum/internal/supervisor"
)

// startIR launches the bridge pool, bridge acceptor, listener
// controller, session dispatcher, pool health tasks, and (when
// auto_sync is enabled) the AutoSync acceptor. Manual ports are applied
// once at startup when auto_sync is disabled. Blocks until stop fires.
func startIR(stop <-chan struct{}, cfg *conf.IRConfig, t *conf.Tunables) {
	flog.Infof("ir: starting with pool size %d, bridge_port=%d sync_port=%d", cfg.PoolSize, cfg.BridgePort, cfg.SyncPort)

	pool := bridgepool.New(2*cfg.PoolSize, t.PoolMaxAge)
	dispatcher := ir.NewDispatcher(pool, t, t.MaxSessions)
	ctrl := ir.NewListenerController(t.IRBind, t.BacklogPorts, cfg.BridgePort, cfg.SyncPort, dispatcher.Handle)

	go supervisor.Run("ir-bridge-acceptor", stop, func(stop <-chan struct{}, reset func()) error {
		return ir.RunBridgeAcceptor(stop, t.IRBind, cfg.BridgePort, t.BacklogBridge, t, pool)
	})

	go pool.RunPinger(stop, t.PoolPingInterval)
	go pool.RunRecycler(stop, t.PoolRecycleInterval)

	if cfg.AutoSync {
		go supervisor.Run("ir-autosync-acceptor", stop, func(stop <-chan struct{}, reset func()) error {
			return ir.RunAutoSyncAcceptor(stop, t.IRBind, cfg.SyncPort, t.BacklogSync, t, ctrl)
		})
	} else {
		ctrl.ApplyDesired(cfg.ManualPorts)
	}

	<-stop
	ctrl.CloseAll()
}
