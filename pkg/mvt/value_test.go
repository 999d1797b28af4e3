package mvt

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		view []byte
		want Value
	}{
		{"string", buildValueString("hello"), Value{Kind: ValueString, Str: "hello"}},
		{"float", buildValueFloat(1.5), Value{Kind: ValueDouble, Dbl: 1.5}},
		{"double", buildValueDouble(3.14159), Value{Kind: ValueDouble, Dbl: 3.14159}},
		{"int", buildValueInt(-42), Value{Kind: ValueInt, Int: -42}},
		{"uint", buildValueUint(42), Value{Kind: ValueUint, Uint: 42}},
		{"sint", buildValueSint(-7), Value{Kind: ValueInt, Int: -7}},
		{"bool-true", buildValueBool(true), Value{Kind: ValueBool, Bool: true}},
		{"bool-false", buildValueBool(false), Value{Kind: ValueBool, Bool: false}},
		{"empty", nil, Value{Kind: ValueNull}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(tt.view)
			if err != nil {
				t.Fatalf("parseValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseValue() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValueRaw(t *testing.T) {
	v := Value{Kind: ValueString, Str: "x"}
	if v.Raw() != "x" {
		t.Errorf("Raw() = %v, want x", v.Raw())
	}
	null := Value{Kind: ValueNull}
	if null.Raw() != nil {
		t.Errorf("Raw() on null = %v, want nil", null.Raw())
	}
}
