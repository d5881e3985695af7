package domain

import (
	"encoding/json"
	"testing"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`12.5`, 12.5},
		{`"12.5"`, 12.5},
		{`"  7 "`, 7},
		{`0`, 0},
		{`""`, 0},
		{`"not-a-number"`, 0},
		{`null`, 0},
	}
	for _, tc := range cases {
		var f FlexFloat
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tc.in, err)
			continue
		}
		if f.Value() != tc.want {
			t.Errorf("unmarshal %s = %v, want %v", tc.in, f.Value(), tc.want)
		}
	}
}

func TestFlexIntUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`30`, 30},
		{`"45"`, 45},
		{`12.9`, 12},
		{`"oops"`, 0},
	}
	for _, tc := range cases {
		var f FlexInt
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tc.in, err)
			continue
		}
		if f.Value() != tc.want {
			t.Errorf("unmarshal %s = %v, want %v", tc.in, f.Value(), tc.want)
		}
	}
}

func TestFlexFloatInStruct(t *testing.T) {
	var payload struct {
		Price    FlexFloat `json:"price"`
		Quantity FlexFloat `json:"quantity"`
	}
	raw := `{"price": "19.99", "quantity": 4}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Price.Value() != 19.99 {
		t.Fatalf("price = %v", payload.Price.Value())
	}
	if payload.Quantity.Value() != 4 {
		t.Fatalf("quantity = %v", payload.Quantity.Value())
	}
}
