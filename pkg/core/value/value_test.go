package value_test

import (
	"testing"

	"github.com/agenthands/kbc/pkg/core/value"
)

func TestValueCreation(t *testing.T) {
	vInt := value.Int(42)
	if vInt.Type != value.TypeInt {
		t.Errorf("expected TypeInt, got %v", vInt.Type)
	}
	if vInt.Int() != 42 {
		t.Errorf("expected 42, got %v", vInt.Int())
	}

	vFloat := value.Float(2.5)
	if vFloat.Type != value.TypeFloat {
		t.Errorf("expected TypeFloat, got %v", vFloat.Type)
	}
	if vFloat.Float() != 2.5 {
		t.Errorf("expected 2.5, got %v", vFloat.Float())
	}

	vName := value.Name("x")
	if !vName.IsName() || vName.Name != "x" {
		t.Errorf("expected name x, got %v", vName)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    value.Value
		want bool
	}{
		{value.Int(0), false},
		{value.Int(1), true},
		{value.Int(-3), true},
		{value.Float(0), false},
		{value.Float(0.1), true},
		{value.Bool(true), true},
		{value.Bool(false), false},
	}
	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", tt.v.Format(), got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.Int(14), "14"},
		{value.Int(-2), "-2"},
		{value.Float(3), "3.0"},
		{value.Float(3.14), "3.14"},
		{value.Name("arr"), "arr"},
	}
	for _, tt := range tests {
		if got := tt.v.Format(); got != tt.want {
			t.Errorf("Format() = %q, want %q", got, tt.want)
		}
	}
}

func TestFloatConversionTruncates(t *testing.T) {
	if got := value.Float(7.9).Int(); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}
