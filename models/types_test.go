// ABOUTME: Tests for entity schemas, records, and client-side validation
// ABOUTME: Covers required-field checks, numeric parsing, and kind parsing
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	customers := SchemaFor(KindCustomers)
	assert.Equal(t, "/api/customers", customers.Path)
	assert.False(t, customers.CustomerFilter)
	assert.False(t, customers.StatusFilter)

	contacts := SchemaFor(KindContacts)
	assert.Equal(t, "/api/contacts", contacts.Path)
	assert.True(t, contacts.CustomerFilter)
	assert.False(t, contacts.StatusFilter)

	deals := SchemaFor(KindDeals)
	assert.Equal(t, "/api/deals", deals.Path)
	assert.True(t, deals.CustomerFilter)
	assert.True(t, deals.StatusFilter)
}

func TestRequiredFields(t *testing.T) {
	required := func(s Schema) []string {
		var keys []string
		for _, f := range s.Fields {
			if f.Required {
				keys = append(keys, f.Key)
			}
		}
		return keys
	}

	assert.Equal(t, []string{"name", "email", "phone"}, required(SchemaFor(KindCustomers)))
	assert.Equal(t, []string{"customer_id", "name", "email", "phone"}, required(SchemaFor(KindContacts)))
	assert.Equal(t, []string{"customer_id", "title", "amount", "status"}, required(SchemaFor(KindDeals)))
}

func TestDeleteConfirmWording(t *testing.T) {
	// Customer deletion must carry the cascading warning; the others not.
	customer := SchemaFor(KindCustomers).DeleteConfirm
	contact := SchemaFor(KindContacts).DeleteConfirm
	deal := SchemaFor(KindDeals).DeleteConfirm

	assert.Contains(t, customer, "associated contacts and deals")
	assert.NotContains(t, contact, "associated")
	assert.NotContains(t, deal, "associated")
	assert.NotEqual(t, customer, contact)
	assert.NotEqual(t, customer, deal)
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"customer", "customers", "Customers"} {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, KindCustomers, kind)
	}

	_, err := ParseKind("invoices")
	assert.Error(t, err)
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"id":     "c1",
		"name":   "Acme",
		"amount": 1250.5,
		"notes":  nil,
	}

	assert.Equal(t, "c1", r.ID())
	assert.Equal(t, "Acme", r.Str("name"))
	assert.Equal(t, "1250.5", r.Str("amount"))
	assert.Equal(t, "", r.Str("notes"))
	assert.Equal(t, "", r.Str("missing"))

	f, ok := r.Float("amount")
	require.True(t, ok)
	assert.Equal(t, 1250.5, f)

	_, ok = r.Float("name")
	assert.False(t, ok)
	_, ok = r.Float("missing")
	assert.False(t, ok)
}

func TestValidateMissingRequired(t *testing.T) {
	schema := SchemaFor(KindCustomers)
	err := schema.Validate(Record{"name": "Acme", "email": "", "phone": "555"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email"}, verr.Missing)
}

func TestValidateParsesNumbers(t *testing.T) {
	schema := SchemaFor(KindDeals)
	record := Record{
		"customer_id": "c1",
		"title":       "Big deal",
		"amount":      "1500.25",
		"status":      StatusNew,
	}

	require.NoError(t, schema.Validate(record))
	assert.Equal(t, 1500.25, record["amount"])
}

func TestValidateRejectsNonNumericAmount(t *testing.T) {
	schema := SchemaFor(KindDeals)
	record := Record{
		"customer_id": "c1",
		"title":       "Big deal",
		"amount":      "lots",
		"status":      StatusNew,
	}

	var verr *ValidationError
	require.ErrorAs(t, schema.Validate(record), &verr)
	assert.Equal(t, []string{"amount"}, verr.Missing)
}

func TestDealStatuses(t *testing.T) {
	assert.Equal(t, []string{
		StatusNew, StatusQualified, StatusProposal,
		StatusNegotiation, StatusClosedWon, StatusClosedLost,
	}, DealStatuses)
}
