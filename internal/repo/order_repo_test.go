package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/naijamart/go-order-backend/internal/domain"
	"github.com/naijamart/go-order-backend/internal/tenant"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "orders.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		FullName:    "Ada Obi",
		Phone:       "08012345678",
		State:       "Lagos",
		Address:     "12 Allen Avenue, Ikeja, Lagos",
		ProductName: "MEGIR Chronograph Watch",
		Color:       "Navy Blue",
		Quantity:    1,
		Price:       57000,
		TotalPrice:  57000,
		Status:      domain.StatusPending,
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "orders.db"))
	if err == nil {
		t.Fatal("expected an error for a missing parent directory")
	}
}

func TestCreateOrder_AssignsIDAndTimestamp(t *testing.T) {
	db := openTestDB(t)

	created, err := CreateOrder(context.Background(), db, tenant.TableOrders, sampleOrder())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated order id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}

	got, err := GetOrder(context.Background(), db, tenant.TableOrders, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.FullName != "Ada Obi" || got.ProductName != "MEGIR Chronograph Watch" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("Status = %q, want %q", got.Status, domain.StatusPending)
	}
}

func TestCreateOrder_MetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	o := sampleOrder()
	o.Metadata = domain.Metadata{
		"gift_recipient": "Ngozi Obi",
		"gift_message":   "Happy birthday!",
	}
	email := "ada@example.com"
	o.Email = &email

	created, err := CreateOrder(context.Background(), db, tenant.TableOrders, o)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, err := GetOrder(context.Background(), db, tenant.TableOrders, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Metadata["gift_recipient"] != "Ngozi Obi" || got.Metadata["gift_message"] != "Happy birthday!" {
		t.Fatalf("metadata mismatch: %v", got.Metadata)
	}
	if got.Email == nil || *got.Email != "ada@example.com" {
		t.Fatalf("email mismatch: %v", got.Email)
	}
}

func TestPartitionsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	created, err := CreateOrder(context.Background(), db, tenant.TableTestOrders, sampleOrder())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := GetOrder(context.Background(), db, tenant.TableTestOrders, created.ID); err != nil {
		t.Fatalf("order missing from its own partition: %v", err)
	}
	if _, err := GetOrder(context.Background(), db, tenant.TableOrders, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("order leaked across partitions: err=%v", err)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetOrder(context.Background(), db, tenant.TableOrders, "1f0e7f8e-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
