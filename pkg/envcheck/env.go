package envcheck

import "os"

// Getter looks up environment variables.
type Getter interface {
	LookupEnv(key string) (string, bool)
}

// RealEnvGetter reads the process environment.
type RealEnvGetter struct{}

func (r *RealEnvGetter) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapGetter serves variables from a fixed map.
type MapGetter map[string]string

func (m MapGetter) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// IsSet reports whether key is defined with a non-empty value.
func IsSet(g Getter, key string) bool {
	v, ok := g.LookupEnv(key)
	return ok && v != ""
}
