// ABOUTME: Genesys Cloud passthrough CLI commands
// ABOUTME: Relays the backend's integration endpoints; responses print as indented JSON
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"crmdesk/api"
)

// GenesysStatusCommand checks the backend's Genesys integration status.
func GenesysStatusCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-status", flag.ExitOnError)
	_ = fs.Parse(args)

	raw, err := client.GenesysStatus(context.Background())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	return printJSON(raw)
}

// GenesysListCommand lists one of the paginated remote collections:
// users, contacts, interactions, or queues.
func GenesysListCommand(client *api.Client, collection string, args []string) error {
	fs := flag.NewFlagSet("genesys-"+collection, flag.ExitOnError)
	limit := fs.Int("limit", 25, "Maximum results per page")
	page := fs.Int("page", 1, "Page number")
	_ = fs.Parse(args)

	ctx := context.Background()
	var raw json.RawMessage
	var err error
	switch collection {
	case "users":
		raw, err = client.GenesysUsers(ctx, *limit, *page)
	case "contacts":
		raw, err = client.GenesysContacts(ctx, *limit, *page)
	case "interactions":
		raw, err = client.GenesysInteractions(ctx, *limit, *page)
	case "queues":
		raw, err = client.GenesysQueues(ctx, *limit, *page)
	default:
		return fmt.Errorf("unknown genesys collection %q", collection)
	}
	if err != nil {
		return fmt.Errorf("failed to list genesys %s: %w", collection, err)
	}
	return printJSON(raw)
}

// GenesysShowCommand fetches one remote record by id from a collection:
// users, contacts, or interactions.
func GenesysShowCommand(client *api.Client, collection string, args []string) error {
	fs := flag.NewFlagSet("genesys-show-"+collection, flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("%s id is required", collection)
	}

	ctx := context.Background()
	var raw json.RawMessage
	var err error
	switch collection {
	case "user":
		raw, err = client.GenesysUser(ctx, fs.Arg(0))
	case "contact":
		raw, err = client.GenesysContact(ctx, fs.Arg(0))
	case "interaction":
		raw, err = client.GenesysInteraction(ctx, fs.Arg(0))
	default:
		return fmt.Errorf("unknown genesys collection %q", collection)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch genesys %s: %w", collection, err)
	}
	return printJSON(raw)
}

// GenesysCreateContactCommand creates a remote contact from a raw JSON
// payload; the remote schema is the backend's concern.
func GenesysCreateContactCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-create-contact", flag.ExitOnError)
	data := fs.String("data", "", "Contact payload as JSON (required)")
	_ = fs.Parse(args)

	payload, err := rawPayload(*data)
	if err != nil {
		return err
	}

	raw, err := client.CreateGenesysContact(context.Background(), payload)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	return printJSON(raw)
}

// GenesysUpdateContactCommand updates a remote contact from a raw JSON
// payload. The flag comes before the contact id.
func GenesysUpdateContactCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-update-contact", flag.ExitOnError)
	data := fs.String("data", "", "Contact payload as JSON (required)")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("contact id is required")
	}

	payload, err := rawPayload(*data)
	if err != nil {
		return err
	}

	raw, err := client.UpdateGenesysContact(context.Background(), fs.Arg(0), payload)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return printJSON(raw)
}

// rawPayload checks that --data holds valid JSON before anything goes
// over the wire.
func rawPayload(data string) (json.RawMessage, error) {
	if data == "" {
		return nil, fmt.Errorf("--data is required")
	}
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// GenesysImportContactCommand imports one remote contact into the CRM.
func GenesysImportContactCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-import-contact", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("contact id is required")
	}

	raw, err := client.ImportGenesysContact(context.Background(), fs.Arg(0))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return printJSON(raw)
}

// GenesysImportAllCommand imports remote contacts in bulk.
func GenesysImportAllCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-import-all", flag.ExitOnError)
	limit := fs.Int("limit", 100, "Maximum contacts to import")
	_ = fs.Parse(args)

	raw, err := client.ImportAllGenesysContacts(context.Background(), *limit)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return printJSON(raw)
}

// GenesysSyncContactsCommand pushes CRM contacts to the remote side.
func GenesysSyncContactsCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-sync-contacts", flag.ExitOnError)
	_ = fs.Parse(args)

	raw, err := client.SyncContactsToGenesys(context.Background())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return printJSON(raw)
}

// GenesysRecordInteractionCommand attaches a remote interaction to a
// CRM customer.
func GenesysRecordInteractionCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("genesys-record-interaction", flag.ExitOnError)
	customer := fs.String("customer", "", "Customer id (required)")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("interaction id is required")
	}
	if *customer == "" {
		return fmt.Errorf("--customer is required")
	}

	raw, err := client.RecordGenesysInteraction(context.Background(), fs.Arg(0), *customer)
	if err != nil {
		return fmt.Errorf("record failed: %w", err)
	}
	return printJSON(raw)
}

func printJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		_, werr := os.Stdout.Write(raw)
		return werr
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(os.Stdout)
	return err
}
