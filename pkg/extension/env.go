package extension

import (
	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exterr"
)

// GetEnvVar returns the value of key. A required variable that is unset or
// empty yields a MISSING_ENV_VAR error; an optional one yields "".
func GetEnvVar(g envcheck.Getter, key string, required bool) (string, error) {
	value, _ := g.LookupEnv(key)
	if required && value == "" {
		return "", exterr.Newf(exterr.CodeMissingEnvVar, "environment variable %s is not set", key)
	}
	return value, nil
}
