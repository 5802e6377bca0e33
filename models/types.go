// ABOUTME: Data model for CRM entities served by the REST backend
// ABOUTME: Defines entity kinds, field schemas, records, and filters
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one of the entity collections exposed by the backend.
type Kind string

const (
	KindCustomers Kind = "customers"
	KindContacts  Kind = "contacts"
	KindDeals     Kind = "deals"
)

// Deal status values. The backend stores these verbatim.
const (
	StatusNew         = "New"
	StatusQualified   = "Qualified"
	StatusProposal    = "Proposal"
	StatusNegotiation = "Negotiation"
	StatusClosedWon   = "Closed Won"
	StatusClosedLost  = "Closed Lost"
)

// DealStatuses lists every valid deal status in pipeline order.
var DealStatuses = []string{
	StatusNew,
	StatusQualified,
	StatusProposal,
	StatusNegotiation,
	StatusClosedWon,
	StatusClosedLost,
}

// FieldType describes how a form field is edited and validated.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumber
	FieldSelect
	FieldDate
	FieldTextArea
)

// Field is one entry in an entity's form schema.
type Field struct {
	Key      string
	Label    string
	Required bool
	Type     FieldType
	Options  []string // for FieldSelect; empty for customer_id, resolved at runtime
}

// Column is one entry in an entity's list table.
type Column struct {
	Title string
	Key   string
	Width int
}

// Schema is the per-kind configuration that parameterizes the generic
// list and form controllers: endpoint path, display names, form fields,
// table columns, and which list filters apply.
type Schema struct {
	Kind           Kind
	Singular       string // "customer"
	Plural         string // "customers"
	Title          string // "Customer"
	Path           string // "/api/customers"
	Fields         []Field
	Columns        []Column
	CustomerFilter bool // list can be filtered by customer_id
	StatusFilter   bool // list can be filtered by deal status (client-side)
	DeleteConfirm  string
}

var schemas = map[Kind]Schema{
	KindCustomers: {
		Kind:     KindCustomers,
		Singular: "customer",
		Plural:   "customers",
		Title:    "Customer",
		Path:     "/api/customers",
		Fields: []Field{
			{Key: "name", Label: "Name", Required: true},
			{Key: "email", Label: "Email", Required: true},
			{Key: "phone", Label: "Phone", Required: true},
			{Key: "address", Label: "Address"},
			{Key: "website", Label: "Website"},
			{Key: "industry", Label: "Industry"},
			{Key: "notes", Label: "Notes", Type: FieldTextArea},
		},
		Columns: []Column{
			{Title: "Name", Key: "name", Width: 28},
			{Title: "Email", Key: "email", Width: 28},
			{Title: "Phone", Key: "phone", Width: 16},
			{Title: "Industry", Key: "industry", Width: 18},
		},
		DeleteConfirm: "Are you sure you want to delete this customer? This will also delete all associated contacts and deals.",
	},
	KindContacts: {
		Kind:     KindContacts,
		Singular: "contact",
		Plural:   "contacts",
		Title:    "Contact",
		Path:     "/api/contacts",
		Fields: []Field{
			{Key: "customer_id", Label: "Customer", Required: true, Type: FieldSelect},
			{Key: "name", Label: "Name", Required: true},
			{Key: "email", Label: "Email", Required: true},
			{Key: "phone", Label: "Phone", Required: true},
			{Key: "position", Label: "Position"},
			{Key: "notes", Label: "Notes", Type: FieldTextArea},
		},
		Columns: []Column{
			{Title: "Name", Key: "name", Width: 24},
			{Title: "Position", Key: "position", Width: 18},
			{Title: "Email", Key: "email", Width: 26},
			{Title: "Phone", Key: "phone", Width: 14},
			{Title: "Customer", Key: "customer_id", Width: 22},
		},
		CustomerFilter: true,
		DeleteConfirm:  "Are you sure you want to delete this contact?",
	},
	KindDeals: {
		Kind:     KindDeals,
		Singular: "deal",
		Plural:   "deals",
		Title:    "Deal",
		Path:     "/api/deals",
		Fields: []Field{
			{Key: "customer_id", Label: "Customer", Required: true, Type: FieldSelect},
			{Key: "title", Label: "Title", Required: true},
			{Key: "amount", Label: "Amount", Required: true, Type: FieldNumber},
			{Key: "status", Label: "Status", Required: true, Type: FieldSelect, Options: DealStatuses},
			{Key: "expected_close_date", Label: "Expected Close Date", Type: FieldDate},
			{Key: "description", Label: "Description", Type: FieldTextArea},
		},
		Columns: []Column{
			{Title: "Title", Key: "title", Width: 26},
			{Title: "Amount", Key: "amount", Width: 12},
			{Title: "Status", Key: "status", Width: 13},
			{Title: "Close Date", Key: "expected_close_date", Width: 12},
			{Title: "Customer", Key: "customer_id", Width: 22},
		},
		CustomerFilter: true,
		StatusFilter:   true,
		DeleteConfirm:  "Are you sure you want to delete this deal?",
	},
}

// Kinds lists every entity kind in navigation order.
var Kinds = []Kind{KindCustomers, KindContacts, KindDeals}

// SchemaFor returns the schema for a kind. Panics on an unknown kind,
// which would be a programming error.
func SchemaFor(k Kind) Schema {
	s, ok := schemas[k]
	if !ok {
		panic(fmt.Sprintf("unknown entity kind %q", k))
	}
	return s
}

// ParseKind maps a user-supplied name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "customer", "customers":
		return KindCustomers, nil
	case "contact", "contacts":
		return KindContacts, nil
	case "deal", "deals":
		return KindDeals, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", name)
}

// Record is an entity as returned by the backend: a field-to-value map.
// The id field is absent until the record has been persisted.
type Record map[string]any

// ID returns the record's identifier, or "" if it has not been persisted.
func (r Record) ID() string {
	return r.Str("id")
}

// Str returns the value of a field as a string. Missing fields and JSON
// nulls come back as "". Numbers are formatted without an exponent.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Float returns the value of a field as a number. The second return is
// false when the field is missing or not numeric.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Filter is the list-view filter state for one entity kind.
type Filter struct {
	Search     string
	CustomerID string
	Status     string // deals only, applied client-side
}

// ValidationError reports required fields that are empty or malformed.
// It is raised entirely client-side, before any network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate checks a record against the schema's required fields and
// parses numeric fields in place, so the submitted payload carries real
// numbers rather than digit strings.
func (s Schema) Validate(r Record) error {
	var missing []string
	for _, f := range s.Fields {
		if f.Required && r.Str(f.Key) == "" {
			missing = append(missing, f.Key)
			continue
		}
		if f.Type == FieldNumber {
			raw := r.Str(f.Key)
			if raw == "" {
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				missing = append(missing, f.Key)
				continue
			}
			r[f.Key] = n
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
