package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/lookup-model/internal/envvar"
)

// Environment is the runtime environment of the component.
type Environment string

const (
	// Development enables human friendly, coloured logs.
	Development Environment = "development"

	// Production emits structured JSON logs for Cloud Logging.
	Production Environment = "production"
)

// FromEnv reads the environment from LOOKUP_MODEL_ENV.
// Pipeline containers default to production.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.LookupModelEnv))
}

// Parse converts a string into an Environment, falling back to Production.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development", "local":
		return Development
	default:
		return Production
	}
}

// IsDevelopment reports whether e is the development environment.
func (e Environment) IsDevelopment() bool {
	return e == Development
}
