package conf

import "fmt"

func errInvalidPort(field string, v int) error {
	return fmt.Errorf("%s: %d is not a valid TCP port", field, v)
}

func errSamePort() error {
	return fmt.Errorf("bridge_port and sync_port must differ")
}

func errEmpty(field string) error {
	return fmt.Errorf("%s must not be empty", field)
}
