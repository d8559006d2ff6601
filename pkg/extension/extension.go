package extension

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/logging"
)

// Paths are the directories the extension needs at startup.
type Paths struct {
	Home   string
	Config string
}

// Initialize reads CLINE_HOME and CLINE_CONFIG_PATH and checks that both
// exist.
func Initialize(g envcheck.Getter, logger logrus.FieldLogger) (Paths, error) {
	log := logging.OrDiscard(logger).WithField("component", "extension")

	paths, err := initialize(g)
	if err != nil {
		log.WithError(err).Error("initialization failed")
		return Paths{}, err
	}
	log.WithFields(logrus.Fields{"home": paths.Home, "config": paths.Config}).Info("initialization completed")
	return paths, nil
}

func initialize(g envcheck.Getter) (Paths, error) {
	home, err := GetEnvVar(g, "CLINE_HOME", true)
	if err != nil {
		return Paths{}, err
	}
	config, err := GetEnvVar(g, "CLINE_CONFIG_PATH", true)
	if err != nil {
		return Paths{}, err
	}
	if err := ValidatePaths([]string{home, config}); err != nil {
		return Paths{}, err
	}
	return Paths{Home: home, Config: config}, nil
}

// Measure runs fn and logs how long it took, whether or not it failed.
func Measure[T any](logger logrus.FieldLogger, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		logging.OrDiscard(logger).WithFields(logrus.Fields{
			"operation":   name,
			"duration_ms": float64(elapsed.Microseconds()) / 1000,
		}).Warn("performance")
	}()
	return fn()
}
