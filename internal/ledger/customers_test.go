package ledger

import (
	"context"
	"errors"
	"testing"

	"bank-ledger-go/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCreateCustomer(t *testing.T) {
	e, _ := setupTestEngine(t)

	c, err := e.CreateCustomer(context.Background(), models.CustomerFields{
		FirstName: "  Grace ",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "412-555-0000",
	})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if c.Id == "" {
		t.Error("Expected generated id")
	}
	if c.FirstName != "Grace" {
		t.Errorf("Expected trimmed first name, got %q", c.FirstName)
	}
	if !c.CreatedAt.Equal(testNow) {
		t.Errorf("Expected createdAt %v, got %v", testNow, c.CreatedAt)
	}

	got, err := e.GetCustomer(context.Background(), c.Id)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if got.Email != "grace@example.com" {
		t.Errorf("Unexpected stored customer %+v", got)
	}
}

func TestCreateCustomer_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		fields models.CustomerFields
	}{
		{"missing first name", models.CustomerFields{LastName: "Doe", Email: "d@example.com"}},
		{"missing last name", models.CustomerFields{FirstName: "Jo", Email: "d@example.com"}},
		{"blank email", models.CustomerFields{FirstName: "Jo", LastName: "Doe", Email: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := setupTestEngine(t)
			_, err := e.CreateCustomer(context.Background(), tt.fields)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Expected ErrInvalidArgument, got %v", err)
			}
			customers, _ := e.ListCustomers(context.Background())
			if len(customers) != 0 {
				t.Errorf("Expected nothing stored, got %d customers", len(customers))
			}
		})
	}
}

func TestUpdateCustomer(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()
	c := mustCreateCustomer(t, e)

	updated, err := e.UpdateCustomer(ctx, c.Id, models.CustomerPatch{
		Phone:   strPtr("555-0101"),
		Address: strPtr("1 Analytical Way"),
	})
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Id != c.Id || !updated.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("Identity changed: %+v", updated)
	}
	if updated.FirstName != "Ada" || updated.Phone != "555-0101" || updated.Address != "1 Analytical Way" {
		t.Errorf("Unexpected merge result %+v", updated)
	}
}

func TestUpdateCustomer_Failures(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()
	c := mustCreateCustomer(t, e)

	if _, err := e.UpdateCustomer(ctx, "missing", models.CustomerPatch{Phone: strPtr("1")}); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}

	_, err := e.UpdateCustomer(ctx, c.Id, models.CustomerPatch{Phone: strPtr("999"), Email: strPtr("")})
	if !errors.Is(err, ErrCustomerFieldsRequired) {
		t.Fatalf("Expected ErrCustomerFieldsRequired, got %v", err)
	}
	stored, _ := e.GetCustomer(ctx, c.Id)
	if stored.Phone != "" || stored.Email != "ada@example.com" {
		t.Errorf("Rejected update was partially applied: %+v", stored)
	}
}

func TestDeleteCustomer(t *testing.T) {
	e, _ := setupTestEngine(t)
	ctx := context.Background()

	c := mustCreateCustomer(t, e)
	a := mustOpenAccount(t, e, c.Id, models.AccountTypeChecking, "0")

	if err := e.DeleteCustomer(ctx, c.Id); !errors.Is(err, ErrCustomerHasAccounts) {
		t.Fatalf("Expected ErrCustomerHasAccounts, got %v", err)
	}
	if !errors.Is(ErrCustomerHasAccounts, ErrConflict) {
		t.Error("ErrCustomerHasAccounts must be a Conflict")
	}

	if err := e.DeleteAccount(ctx, a.Id); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if err := e.DeleteCustomer(ctx, c.Id); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := e.GetCustomer(ctx, c.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected customer gone, got %v", err)
	}
	if err := e.DeleteCustomer(ctx, c.Id); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("Expected ErrCustomerNotFound on second delete, got %v", err)
	}
}

func TestFindCustomerByEmail(t *testing.T) {
	e, _ := setupTestEngine(t)
	c := mustCreateCustomer(t, e)

	found, err := e.FindCustomerByEmail(context.Background(), " ADA@example.com")
	if err != nil {
		t.Fatalf("FindCustomerByEmail failed: %v", err)
	}
	if found.Id != c.Id {
		t.Errorf("Found wrong customer %s", found.Id)
	}

	if _, err := e.FindCustomerByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
