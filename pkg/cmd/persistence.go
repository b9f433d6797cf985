package cmd

import (
	"fmt"
	"strings"

	"github.com/workflowwiz/wizard/pkg/persistence"
	"github.com/workflowwiz/wizard/pkg/persistence/file"
	"github.com/workflowwiz/wizard/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "redis"}

// nolint:ireturn // Callers depend on the interface, not the backend.
func NewPersistence(databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "redis":
		store, err := redis.NewPersistence(databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create redis persistence: %w", err))
		}

		return store
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
