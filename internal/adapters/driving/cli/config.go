package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and change lectio settings stored in the TOML config file.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Integers and booleans are detected
automatically; everything else is stored as a string.

Common keys:
  embedding.provider       openai or ollama
  embedding.model          embedding model name
  chunking.target_tokens   target chunk size
  chunking.overlap_tokens  chunk overlap
  library.default_course   course used when --course is omitted`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the OpenAI API key",
	Long:  `Prompts for the OpenAI API key without echoing it to the terminal.`,
	RunE:  runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())

	keys := []string{
		file.KeyEmbeddingProvider,
		file.KeyEmbeddingModel,
		file.KeyEmbeddingBaseURL,
		file.KeyOpenAIAPIKey,
		file.KeyChunkTarget,
		file.KeyChunkOverlap,
		file.KeyDataDir,
		file.KeyDefaultCourse,
		file.KeyWatchDir,
		file.KeyWatchCourse,
	}
	sort.Strings(keys)

	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if key == file.KeyOpenAIAPIKey {
			val = maskAPIKey(fmt.Sprint(val))
		}
		cmd.Printf("%-28s %v\n", key, val)
	}
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	key, raw := args[0], args[1]

	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	return configStore.Set(key, value)
}

func runConfigSetKey(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	cmd.Print("OpenAI API key: ")
	key := readPassword()
	cmd.Println()

	if key == "" {
		return fmt.Errorf("no key entered")
	}
	if err := configStore.Set(file.KeyOpenAIAPIKey, key); err != nil {
		return err
	}

	cmd.Println("API key stored.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
