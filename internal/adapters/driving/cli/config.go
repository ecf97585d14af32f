package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configSecret bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and edit the configuration file.

Common keys:
  embedding.provider        gemini or openai
  embedding.api_key         embedding provider API key
  embedding.model           embedding model override
  llm.provider              gemini or openai
  llm.api_key               LLM provider API key
  llm.model                 LLM model override
  catalog.default_currency  fallback currency for unmarked prices
  data_dir                  data directory override`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.
With --secret the value is prompted without echo instead of taken from the
command line, keeping API keys out of shell history.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configSetCmd.Flags().BoolVar(&configSecret, "secret", false, "prompt for the value without echo")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	keys := knownConfigKeys()
	cmd.Printf("Configuration (%s):\n", configStore.Path())
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		display := fmt.Sprintf("%v", val)
		if sensitiveKey(key) {
			display = maskAPIKey(display)
		}
		cmd.Printf("  %-26s %s\n", key, display)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]

	var value string
	switch {
	case configSecret:
		cmd.Print("Enter value: ")
		value = readSecret()
		cmd.Println()
		if value == "" {
			return errors.New("empty value")
		}
	case len(args) == 2:
		value = args[1]
	default:
		return errors.New("a value is required unless --secret is given")
	}

	if err := configStore.Set(key, coerceValue(value)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

// knownConfigKeys lists the keys shown by config show, in display order.
func knownConfigKeys() []string {
	return []string{
		"embedding.provider", "embedding.api_key", "embedding.model",
		"embedding.base_url", "embedding.dimensions",
		"llm.provider", "llm.api_key", "llm.model", "llm.base_url",
		"catalog.default_currency", "data_dir",
	}
}

func sensitiveKey(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.Contains(key, "secret")
}

// coerceValue converts obvious bools and integers so config.toml stays typed.
func coerceValue(value string) any {
	if b, err := strconv.ParseBool(value); err == nil && (value == "true" || value == "false") {
		return b
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
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
