package tool

import "testing"

func TestStringArg(t *testing.T) {
	t.Parallel()

	args := map[string]any{"name": "  Ada  ", "count": 3}

	got, err := StringArg(args, "name")
	if err != nil {
		t.Fatalf("StringArg(name) error = %v", err)
	}
	if got != "Ada" {
		t.Fatalf("StringArg(name) = %q, want Ada", got)
	}

	if _, err := StringArg(args, "missing"); err == nil {
		t.Fatal("StringArg(missing) expected error")
	}
	if _, err := StringArg(args, "count"); err == nil {
		t.Fatal("StringArg(count) expected type error")
	}
	if _, err := StringArg(map[string]any{"name": "   "}, "name"); err == nil {
		t.Fatal("StringArg(blank) expected error")
	}
}

func TestOptStringArgDistinguishesOmittedFromEmpty(t *testing.T) {
	t.Parallel()

	got, err := OptStringArg(map[string]any{}, "email")
	if err != nil {
		t.Fatalf("OptStringArg(absent) error = %v", err)
	}
	if got != nil {
		t.Fatalf("OptStringArg(absent) = %v, want nil", *got)
	}

	got, err = OptStringArg(map[string]any{"email": ""}, "email")
	if err != nil {
		t.Fatalf("OptStringArg(empty) error = %v", err)
	}
	if got == nil || *got != "" {
		t.Fatalf("OptStringArg(empty) = %v, want pointer to empty string", got)
	}

	if _, err := OptStringArg(map[string]any{"email": 7}, "email"); err == nil {
		t.Fatal("OptStringArg(number) expected type error")
	}
}

func TestIntArg(t *testing.T) {
	t.Parallel()

	// JSON decoding delivers numbers as float64.
	got, err := IntArg(map[string]any{"quantity": float64(2)}, "quantity")
	if err != nil {
		t.Fatalf("IntArg(float64) error = %v", err)
	}
	if got != 2 {
		t.Fatalf("IntArg(float64) = %d, want 2", got)
	}

	got, err = IntArg(map[string]any{"quantity": 5}, "quantity")
	if err != nil {
		t.Fatalf("IntArg(int) error = %v", err)
	}
	if got != 5 {
		t.Fatalf("IntArg(int) = %d, want 5", got)
	}

	if _, err := IntArg(map[string]any{"quantity": 2.5}, "quantity"); err == nil {
		t.Fatal("IntArg(2.5) expected whole-number error")
	}
	if _, err := IntArg(map[string]any{}, "quantity"); err == nil {
		t.Fatal("IntArg(absent) expected error")
	}
}

func TestIntArgDefault(t *testing.T) {
	t.Parallel()

	got, err := IntArgDefault(map[string]any{}, "quantity", 1)
	if err != nil {
		t.Fatalf("IntArgDefault(absent) error = %v", err)
	}
	if got != 1 {
		t.Fatalf("IntArgDefault(absent) = %d, want 1", got)
	}

	got, err = IntArgDefault(map[string]any{"quantity": float64(0)}, "quantity", 1)
	if err != nil {
		t.Fatalf("IntArgDefault(0) error = %v", err)
	}
	if got != 0 {
		t.Fatalf("IntArgDefault(0) = %d, want 0 (explicit zero is not the default)", got)
	}
}
