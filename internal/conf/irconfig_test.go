package conf

import "testing"

func TestIRConfigSetDefaults(t *testing.T) {
	tn := &Tunables{NofileSoft: 65535}
	c := &IRConfig{}
	c.setDefaults(tn)

	if c.BridgePort != 7000 {
		t.Errorf("BridgePort = %d, want 7000", c.BridgePort)
	}
	if c.SyncPort != 7001 {
		t.Errorf("SyncPort = %d, want 7001", c.SyncPort)
	}
	if c.PoolSize <= 0 {
		t.Errorf("PoolSize = %d, want > 0", c.PoolSize)
	}
}

func TestIRConfigValidateRejectsSamePort(t *testing.T) {
	c := &IRConfig{BridgePort: 7000, SyncPort: 7000}
	errs := c.validate()
	if len(errs) == 0 {
		t.Fatal("validate() returned no errors for identical ports")
	}
}

func TestIRConfigValidateRejectsOutOfRangePort(t *testing.T) {
	c := &IRConfig{BridgePort: 0, SyncPort: 7001}
	errs := c.validate()
	if len(errs) == 0 {
		t.Fatal("validate() returned no errors for port 0")
	}
}

func TestIRConfigValidateAcceptsGoodConfig(t *testing.T) {
	c := &IRConfig{BridgePort: 7000, SyncPort: 7001}
	if errs := c.validate(); len(errs) != 0 {
		t.Errorf("validate() = %v, want none", errs)
	}
}
