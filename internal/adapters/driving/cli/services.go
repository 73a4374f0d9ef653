package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/config/file"
	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/embedding/ollama"
	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/embedding/openai"
	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/storage/sqlite"
	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/vectorindex/flat"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driving"
	"github.com/lectio-labs/lectio-cli/internal/core/services"
	"github.com/lectio-labs/lectio-cli/internal/postprocessors/chunker"
)

// Services wired on first use. Package-level so tests can inject fakes.
var (
	configStore      driven.ConfigStore
	docStore         driven.DocumentStore
	indexRegistry    driven.IndexRegistry
	retrievalService driving.RetrievalService
	libraryService   driving.LibraryService
)

// initConfig loads the config store if not already present.
func initConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	return nil
}

// resolveDataDir picks the data directory from flag, config, or default.
func resolveDataDir() (string, error) {
	if flagDataDir != "" {
		return flagDataDir, nil
	}
	if dir := configStore.GetString(file.KeyDataDir, ""); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".lectio", "data"), nil
}

// initLibrary wires the catalog store and library service.
func initLibrary() error {
	if libraryService != nil {
		return nil
	}
	if err := initConfig(); err != nil {
		return err
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	if docStore == nil {
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		docStore = store
	}

	libraryService = services.NewLibraryService(docStore)
	return nil
}

// initRegistry wires the per-document index registry.
func initRegistry() error {
	if indexRegistry != nil {
		return nil
	}
	if err := initConfig(); err != nil {
		return err
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	registry, err := flat.NewRegistry(filepath.Join(dataDir, "indices"))
	if err != nil {
		return fmt.Errorf("opening index registry: %w", err)
	}
	indexRegistry = registry
	return nil
}

// initRetrieval wires the full retrieval pipeline: chunker, embedding
// service, index registry and catalog.
func initRetrieval() error {
	if retrievalService != nil {
		return nil
	}
	if err := initLibrary(); err != nil {
		return err
	}
	if err := initRegistry(); err != nil {
		return err
	}

	embedder, err := newEmbeddingService()
	if err != nil {
		return err
	}

	proc, err := chunker.New(
		chunker.WithTargetTokens(configStore.GetInt(file.KeyChunkTarget, chunker.DefaultTargetTokens)),
		chunker.WithOverlapTokens(configStore.GetInt(file.KeyChunkOverlap, chunker.DefaultOverlapTokens)),
	)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	retrievalService = services.NewRetrievalService(proc, embedder, indexRegistry, docStore)
	return nil
}

// newEmbeddingService builds the configured embedding provider.
func newEmbeddingService() (driven.EmbeddingService, error) {
	provider := configStore.GetString(file.KeyEmbeddingProvider, "ollama")

	switch provider {
	case "openai":
		apiKey := configStore.GetString(file.KeyOpenAIAPIKey, "")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key set; run 'lectio config set-key' or set OPENAI_API_KEY")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString(file.KeyEmbeddingBaseURL, ""),
			Model:   configStore.GetString(file.KeyEmbeddingModel, ""),
		})

	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: configStore.GetString(file.KeyEmbeddingBaseURL, ""),
			Model:   configStore.GetString(file.KeyEmbeddingModel, ""),
		}), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want openai or ollama)", provider)
	}
}

// closeServices releases everything the init functions wired up.
func closeServices() {
	if docStore != nil {
		docStore.Close() //nolint:errcheck
	}
	if indexRegistry != nil {
		indexRegistry.Close() //nolint:errcheck
	}
}
