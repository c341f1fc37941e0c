package conf

import (
	"os"
	"strconv"
	"time"
)

// envInt reads name as an int, falling back to def on any parse failure or
// if the variable is unset.
func envInt(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// envSeconds reads name as a number of seconds (fractions allowed) and
// returns it as a time.Duration, falling back to def if unset, on any
// parse failure, or on a negative value.
func envSeconds(name string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return def
	}
	return time.Duration(n * float64(time.Second))
}

// envString reads name as a string, falling back to def if unset or empty.
func envString(name, def string) string {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def
	}
	return v
}

// envBool reads name as a bool, falling back to def on any parse failure.
func envBool(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
