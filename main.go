// ABOUTME: Entry point for the crmdesk terminal console and CLI
// ABOUTME: Routes to the TUI or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/api"
	"crmdesk/cli"
	"crmdesk/config"
	"crmdesk/models"
	"crmdesk/store"
	"crmdesk/tui"
)

const version = "0.2.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	baseURL := flag.String("url", "", "Backend base URL (default from config/CRMDESK_URL)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("crmdesk version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	args := flag.Args()
	if len(args) == 0 || args[0] == "tui" {
		runTUI(cfg)
		return
	}

	command := args[0]
	commandArgs := args[1:]

	logger, err := newConsoleLogger()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client := api.NewClient(api.Options{
		BaseURL:  cfg.BaseURL,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout(),
		Logger:   logger,
	})

	switch command {
	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}
		if err := runCRMCommand(client, commandArgs[0], commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "backup":
		if err := cli.BackupCommand(client, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "genesys":
		if len(commandArgs) == 0 {
			fmt.Println("Error: genesys requires a subcommand")
			printUsage()
			os.Exit(1)
		}
		if err := runGenesysCommand(client, commandArgs[0], commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCRMCommand(client *api.Client, command string, args []string) error {
	op, kindName, ok := splitCommand(command)
	if !ok {
		return fmt.Errorf("unknown crm command: %s", command)
	}
	kind, err := models.ParseKind(kindName)
	if err != nil {
		return err
	}

	switch op {
	case "list":
		return cli.ListCommand(client, kind, args)
	case "show":
		return cli.ShowCommand(client, kind, args)
	case "add":
		return cli.AddCommand(client, kind, args)
	case "update":
		return cli.UpdateCommand(client, kind, args)
	case "delete":
		return cli.DeleteCommand(client, kind, args)
	}
	return fmt.Errorf("unknown crm command: %s", command)
}

// splitCommand splits "list-customers" into ("list", "customers").
func splitCommand(command string) (op, kind string, ok bool) {
	for i := 0; i < len(command); i++ {
		if command[i] == '-' {
			return command[:i], command[i+1:], true
		}
	}
	return "", "", false
}

func runGenesysCommand(client *api.Client, command string, args []string) error {
	switch command {
	case "status":
		return cli.GenesysStatusCommand(client, args)
	case "users", "contacts", "interactions", "queues":
		return cli.GenesysListCommand(client, command, args)
	case "show-user", "show-contact", "show-interaction":
		return cli.GenesysShowCommand(client, command[len("show-"):], args)
	case "create-contact":
		return cli.GenesysCreateContactCommand(client, args)
	case "update-contact":
		return cli.GenesysUpdateContactCommand(client, args)
	case "import-contact":
		return cli.GenesysImportContactCommand(client, args)
	case "import-all":
		return cli.GenesysImportAllCommand(client, args)
	case "sync-contacts":
		return cli.GenesysSyncContactsCommand(client, args)
	case "record-interaction":
		return cli.GenesysRecordInteractionCommand(client, args)
	}
	return fmt.Errorf("unknown genesys command: %s", command)
}

func runTUI(cfg *config.Config) {
	logger, err := newFileLogger(cfg.LogPath())
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dispatcher := tui.NewDispatcher()
	client := api.NewClient(api.Options{
		BaseURL:  cfg.BaseURL,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout(),
		Notifier: dispatcher,
		Logger:   logger,
	})

	model := tui.NewModel(client, store.New(), logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	dispatcher.Attach(program.Send)

	if _, err := program.Run(); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}

// newFileLogger writes to a log file; the terminal belongs to the TUI.
func newFileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func newConsoleLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func printUsage() {
	fmt.Printf(`crmdesk v%s - terminal console for the CRM backend

USAGE:
  crmdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --url <url>            Backend base URL (default: http://localhost:5000)

COMMANDS:
  tui                    Start the interactive console (default)
  crm                    CRM management commands
  backup                 Trigger a backend data backup
  genesys                Genesys Cloud integration commands

CRM COMMANDS:
  crmdesk crm list-customers     List customers
    --search <text>                Free-text search

  crmdesk crm add-customer       Add a customer
    --name --email --phone         Required fields
    --address --website --industry --notes

  crmdesk crm show-customer <id>
  crmdesk crm update-customer [flags] <id>   (flags before the id)
  crmdesk crm delete-customer [--yes] <id>

  crmdesk crm list-contacts      List contacts
    --search <text>                Free-text search
    --customer <id>                Filter by customer

  crmdesk crm add-contact        Add a contact
    --customer_id --name --email --phone    Required fields
    --position --notes

  crmdesk crm list-deals         List deals
    --search <text>                Free-text search
    --customer <id>                Filter by customer
    --status <status>              Filter by status (client-side)

  crmdesk crm add-deal           Add a deal
    --customer_id --title --amount --status  Required fields
    --expected_close_date --description

  The same show/update/delete subcommands exist for contacts and deals.

GENESYS COMMANDS:
  crmdesk genesys status
  crmdesk genesys users|contacts|interactions|queues [--limit N] [--page N]
  crmdesk genesys show-user|show-contact|show-interaction <id>
  crmdesk genesys create-contact --data '<json>'
  crmdesk genesys update-contact --data '<json>' <id>
  crmdesk genesys import-contact <id>
  crmdesk genesys import-all [--limit N]
  crmdesk genesys sync-contacts
  crmdesk genesys record-interaction --customer <id> <interaction-id>

EXAMPLES:
  # Open the interactive console
  crmdesk

  # Add a customer
  crmdesk crm add-customer --name "Acme Corp" --email "info@acme.com" --phone "555-0100"

  # List deals for one customer in the Proposal stage
  crmdesk crm list-deals --customer c42 --status Proposal

  # Trigger a backup
  crmdesk backup

`, version)
}
