package conf

// EUConfig holds the settings gathered from the EU bootstrap prompts.
type EUConfig struct {
	IranIP         string
	BridgePort     int
	SyncPort       int
	PoolSize       int
	EnableAutoSync bool
}

// setDefaults fills zero-valued fields with the EU role's defaults.
func (c *EUConfig) setDefaults(t *Tunables) {
	if c.IranIP == "" {
		c.IranIP = "127.0.0.1"
	}
	if c.BridgePort == 0 {
		c.BridgePort = 7000
	}
	if c.SyncPort == 0 {
		c.SyncPort = 7001
	}
	if c.PoolSize == 0 {
		c.PoolSize = t.PoolSize("eu")
	}
}

// validate reports configuration problems that should abort startup.
func (c *EUConfig) validate() []error {
	var errs []error
	if c.IranIP == "" {
		errs = append(errs, errEmpty("iran_ip"))
	}
	if c.BridgePort < 1 || c.BridgePort > 65535 {
		errs = append(errs, errInvalidPort("bridge_port", c.BridgePort))
	}
	if c.SyncPort < 1 || c.SyncPort > 65535 {
		errs = append(errs, errInvalidPort("sync_port", c.SyncPort))
	}
	if c.BridgePort == c.SyncPort {
		errs = append(errs, errSamePort())
	}
	return errs
}
