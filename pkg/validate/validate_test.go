package validate_test

import (
	"testing"

	"github.com/stockpile-io/stockpile/pkg/validate"
)

type productInput struct {
	Name        string  `json:"name"        validate:"required,min=3,max=50"`
	Description string  `json:"description" validate:"nullable,max=50"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Amount      *int    `json:"amount"      validate:"nullable,gte=0"`
}

func TestValidInput(t *testing.T) {
	amount := 5
	errs := validate.Struct(productInput{
		Name:        "Widget",
		Description: "", // nullable — allowed to be empty
		Price:       9.99,
		Amount:      &amount,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["price"]; !ok {
		t.Error("expected price to be required")
	}
}

func TestStringLengthBounds(t *testing.T) {
	errs := validate.Struct(productInput{Name: "ab", Price: 1})
	if _, ok := errs["name"]; !ok {
		t.Error("expected 2-char name to fail min=3")
	}

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	errs = validate.Struct(productInput{Name: string(long), Price: 1})
	if _, ok := errs["name"]; !ok {
		t.Error("expected 51-char name to fail max=50")
	}
}

func TestNumericRules(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Widget", Price: 0})
	if _, ok := errs["price"]; !ok {
		t.Error("expected price=0 to fail (required)")
	}

	errs = validate.Struct(productInput{Name: "Widget", Price: -1})
	if _, ok := errs["price"]; !ok {
		t.Error("expected negative price to fail gt=0")
	}

	negative := -1
	errs = validate.Struct(productInput{Name: "Widget", Price: 1, Amount: &negative})
	if _, ok := errs["amount"]; !ok {
		t.Error("expected negative amount to fail gte=0")
	}
}

func TestNullablePointerSkipped(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Widget", Price: 1, Amount: nil})
	if _, ok := errs["amount"]; ok {
		t.Error("nil nullable pointer must skip remaining rules")
	}
}

func TestInRuleWithMultipleValues(t *testing.T) {
	type in struct {
		Type string `json:"type" validate:"required,in=add,remove"`
	}
	if errs := validate.Struct(in{Type: "add"}); validate.HasErrors(errs) {
		t.Errorf("expected add to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Type: "remove"}); validate.HasErrors(errs) {
		t.Errorf("expected remove to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Type: "transfer"}); !validate.HasErrors(errs) {
		t.Error("expected transfer to fail the in rule")
	}
}

func TestInRuleFollowedByAnotherRule(t *testing.T) {
	type in struct {
		Type string `json:"type" validate:"in=add,remove,max=10"`
	}
	if errs := validate.Struct(in{Type: "add"}); validate.HasErrors(errs) {
		t.Errorf("expected add to pass with trailing rule, got: %v", errs)
	}
	if errs := validate.Struct(in{Type: "other"}); !validate.HasErrors(errs) {
		t.Error("expected other to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Score float64 `json:"score" validate:"between=0,100"`
	}
	if errs := validate.Struct(in{Score: 50}); validate.HasErrors(errs) {
		t.Errorf("expected 50 to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Score: 101}); !validate.HasErrors(errs) {
		t.Error("expected 101 to fail between=0,100")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected invalid email to fail")
	}
	if errs := validate.Struct(in{Email: "ops@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}
