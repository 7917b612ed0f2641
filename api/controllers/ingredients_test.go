package controllers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

func TestParseBodyDateAcceptsBothFormats(t *testing.T) {
	plain, err := parseBodyDate("purchase_date", "2025-03-10")
	if err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if plain.Year() != 2025 || plain.Month() != time.March || plain.Day() != 10 {
		t.Fatalf("unexpected parsed date %v", plain)
	}

	stamped, err := parseBodyDate("purchase_date", "2025-03-10T08:30:00Z")
	if err != nil {
		t.Fatalf("rfc3339 date: %v", err)
	}
	if stamped.Hour() != 8 {
		t.Fatalf("unexpected parsed time %v", stamped)
	}

	if _, err := parseBodyDate("purchase_date", "10/03/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOptionalDateKeepsTriState(t *testing.T) {
	absent, err := optionalDate("use_by_date", types.Optional[string]{})
	if err != nil {
		t.Fatalf("absent: %v", err)
	}
	if absent.Present {
		t.Fatal("absent field must stay absent")
	}

	null, err := optionalDate("use_by_date", types.Null[string]())
	if err != nil {
		t.Fatalf("null: %v", err)
	}
	if !null.IsNull() {
		t.Fatal("explicit null must survive conversion")
	}

	set, err := optionalDate("use_by_date", types.Some("2025-04-01"))
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if set.Value == nil || set.Value.Month() != time.April {
		t.Fatalf("unexpected value %+v", set)
	}
}

func TestCreateRequestRejectsUnknownStorageLocation(t *testing.T) {
	payload := createIngredientRequest{
		Name:            "Tomato",
		CategoryID:      uuid.New(),
		PurchaseDate:    "2025-03-10",
		Quantity:        decimal.NewFromInt(2),
		UnitID:          uuid.New(),
		StorageLocation: "attic",
	}
	if _, err := payload.toCreateInput(); err == nil {
		t.Fatal("expected error for unknown storage location")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRequestConvertsDatesAndLocation(t *testing.T) {
	location := "frozen"
	payload := updateIngredientRequest{
		StorageLocation: &location,
		BestBeforeDate:  types.Some("2025-05-01"),
		UseByDate:       types.Null[string](),
	}

	input, err := payload.toUpdateInput()
	if err != nil {
		t.Fatalf("toUpdateInput: %v", err)
	}
	if input.StorageLocation == nil || string(*input.StorageLocation) != "frozen" {
		t.Fatalf("unexpected storage location %+v", input.StorageLocation)
	}
	if input.BestBeforeDate.Value == nil || input.BestBeforeDate.Value.Month() != time.May {
		t.Fatalf("unexpected best-before %+v", input.BestBeforeDate)
	}
	if !input.UseByDate.IsNull() {
		t.Fatal("use-by null must survive conversion")
	}
}
