package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/logging"
)

// DefaultEnvFile is loaded when present and no file is named explicitly.
const DefaultEnvFile = ".env"

// LoadEnv loads variables from the named .env files into the process
// environment. Variables already set are kept. Named files must exist;
// with no names, DefaultEnvFile is loaded if present.
func LoadEnv(logger logrus.FieldLogger, files ...string) error {
	log := logging.OrDiscard(logger)

	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			log.Debug("No local env files loaded; relying on process environment")
			return nil
		}
		files = []string{DefaultEnvFile}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	log.Debugf("Loaded env files: %s", strings.Join(files, ", "))
	return nil
}
