package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to intakeflow.yml and writes a
// starter client bundle into the clients directory.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to intakeflow! Let's configure your deployment.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Clients directory.
	clientsPrompt := promptui.Prompt{
		Label:   "Client configs directory",
		Default: cfg.ClientsDir,
	}
	if cfg.ClientsDir, err = clientsPrompt.Run(); err != nil {
		return nil, fmt.Errorf("clients dir: %w", err)
	}

	// 4. Completion model for reply generation.
	modelPrompt := promptui.Select{
		Label: "Completion model for reply text",
		Items: []string{"gpt-4o-mini", "gpt-4o"},
	}
	if _, cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}

	// 5. Starter client bundle.
	clientPrompt := promptui.Prompt{
		Label:   "First client id",
		Default: "default",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("client id cannot be empty")
			}
			return nil
		},
	}
	clientID, err := clientPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client id: %w", err)
	}

	namePrompt := promptui.Prompt{
		Label:   "Firm / business name",
		Default: "Law Firm AI Assistant",
	}
	businessName, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("business name: %w", err)
	}

	client := DefaultClient(strings.TrimSpace(clientID))
	client.BusinessName = businessName
	if err := client.Save(cfg.ClientsDir); err != nil {
		return nil, err
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("\nNote: Set OPENAI_API_KEY in your environment before running intakeflow serve.")
		fmt.Println("Without it, replies fall back to the deterministic templates.")
	}

	configPath := "intakeflow.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s, client bundle to %s/%s.yml\n", configPath, cfg.ClientsDir, client.ID)
	return cfg, nil
}
