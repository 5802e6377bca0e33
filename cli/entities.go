// ABOUTME: Entity CLI commands against the remote CRM backend
// ABOUTME: One generic implementation per operation, parameterized by entity schema
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"crmdesk/api"
	"crmdesk/models"
	"crmdesk/store"
)

// ListCommand lists records of one kind, with the same filters the list
// view offers: free-text search, customer, and (for deals) status.
func ListCommand(client *api.Client, kind models.Kind, args []string) error {
	schema := models.SchemaFor(kind)
	fs := flag.NewFlagSet("list-"+schema.Plural, flag.ExitOnError)
	search := fs.String("search", "", "Free-text search")
	var customer, status *string
	if schema.CustomerFilter {
		customer = fs.String("customer", "", "Filter by customer id")
	}
	if schema.StatusFilter {
		status = fs.String("status", "", "Filter by deal status (client-side)")
	}
	_ = fs.Parse(args)

	filter := models.Filter{Search: *search}
	if customer != nil {
		filter.CustomerID = *customer
	}
	if status != nil {
		filter.Status = *status
	}

	ctx := context.Background()
	st := store.New()
	if needsCustomerNames(schema) {
		customers, err := client.List(ctx, models.SchemaFor(models.KindCustomers), models.Filter{})
		if err != nil {
			return fmt.Errorf("failed to load customers for name resolution: %w", err)
		}
		st.Replace(models.KindCustomers, customers)
	}

	records, err := client.List(ctx, schema, filter)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", schema.Plural, err)
	}

	if len(records) == 0 {
		fmt.Printf("No %s found\n", schema.Plural)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	headers := []string{"ID"}
	for _, col := range schema.Columns {
		headers = append(headers, strings.ToUpper(col.Title))
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, record := range records {
		row := []string{record.ID()}
		for _, col := range schema.Columns {
			if col.Key == "customer_id" {
				row = append(row, st.CustomerName(record.Str(col.Key)))
			} else {
				row = append(row, record.Str(col.Key))
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func needsCustomerNames(schema models.Schema) bool {
	for _, col := range schema.Columns {
		if col.Key == "customer_id" {
			return true
		}
	}
	return false
}

// ShowCommand prints one record field by field.
func ShowCommand(client *api.Client, kind models.Kind, args []string) error {
	schema := models.SchemaFor(kind)
	fs := flag.NewFlagSet("show-"+schema.Singular, flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("%s id is required", schema.Singular)
	}

	record, err := client.Get(context.Background(), schema, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", schema.Singular, err)
	}

	fmt.Printf("ID: %s\n", record.ID())
	for _, field := range schema.Fields {
		fmt.Printf("%s: %s\n", field.Label, record.Str(field.Key))
	}
	return nil
}

// AddCommand creates a record from flags derived from the schema.
// Required-field validation runs locally; nothing is sent when it fails.
func AddCommand(client *api.Client, kind models.Kind, args []string) error {
	schema := models.SchemaFor(kind)
	fs := flag.NewFlagSet("add-"+schema.Singular, flag.ExitOnError)
	values := fieldFlags(fs, schema)
	_ = fs.Parse(args)

	record := models.Record{}
	for key, v := range values {
		record[key] = *v
	}
	if err := schema.Validate(record); err != nil {
		return err
	}

	created, err := client.Create(context.Background(), schema, record)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", schema.Singular, err)
	}

	fmt.Printf("✓ %s created (ID: %s)\n", schema.Title, created.ID())
	return nil
}

// UpdateCommand overlays the given flags onto the fetched record and
// writes it back. Flags must come before the record id.
func UpdateCommand(client *api.Client, kind models.Kind, args []string) error {
	schema := models.SchemaFor(kind)
	fs := flag.NewFlagSet("update-"+schema.Singular, flag.ExitOnError)
	values := fieldFlags(fs, schema)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("%s id is required", schema.Singular)
	}
	id := fs.Arg(0)

	ctx := context.Background()
	record, err := client.Get(ctx, schema, id)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", schema.Singular, err)
	}

	changed := false
	fs.Visit(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok {
			record[f.Name] = *v
			changed = true
		}
	})
	if !changed {
		return fmt.Errorf("no fields to update")
	}
	if err := schema.Validate(record); err != nil {
		return err
	}

	if _, err := client.Update(ctx, schema, id, record); err != nil {
		return fmt.Errorf("failed to update %s: %w", schema.Singular, err)
	}

	fmt.Printf("✓ %s updated (ID: %s)\n", schema.Title, id)
	return nil
}

// DeleteCommand deletes a record after the same confirmation prompt the
// list view uses; --yes skips the prompt.
func DeleteCommand(client *api.Client, kind models.Kind, args []string) error {
	schema := models.SchemaFor(kind)
	fs := flag.NewFlagSet("delete-"+schema.Singular, flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("%s id is required", schema.Singular)
	}
	id := fs.Arg(0)

	if !*yes && !confirm(schema.DeleteConfirm) {
		fmt.Println("Aborted")
		return nil
	}

	if err := client.Delete(context.Background(), schema, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", schema.Singular, err)
	}

	fmt.Printf("✓ %s deleted (ID: %s)\n", schema.Title, id)
	return nil
}

// BackupCommand triggers a backend data backup.
func BackupCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	_ = fs.Parse(args)

	message, err := client.Backup(context.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Println(message)
	return nil
}

// fieldFlags registers one string flag per schema field and returns the
// destination map keyed by field key.
func fieldFlags(fs *flag.FlagSet, schema models.Schema) map[string]*string {
	values := make(map[string]*string, len(schema.Fields))
	for _, field := range schema.Fields {
		usage := field.Label
		if field.Required {
			usage += " (required)"
		}
		if len(field.Options) > 0 {
			usage += " [" + strings.Join(field.Options, "|") + "]"
		}
		values[field.Key] = fs.String(field.Key, "", usage)
	}
	return values
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
