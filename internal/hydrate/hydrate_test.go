package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeKeepsKeyOrder(t *testing.T) {
	payload := []byte(`{"padding":"1x","fill":{"":"#white","hovered":"#dark"},"gap":[1,2]}`)

	got, err := NewDecoder().DecodeObject(Context{Source: "card"}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := Object{
		{Key: "padding", Value: "1x"},
		{Key: "fill", Value: Object{
			{Key: "", Value: "#white"},
			{Key: "hovered", Value: "#dark"},
		}},
		{Key: "gap", Value: []any{json.Number("1"), json.Number("2")}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("decoded mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestDecodeScalars(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    any
	}{
		{name: "null", payload: `null`, want: nil},
		{name: "bool", payload: `true`, want: true},
		{name: "number", payload: `1.5`, want: json.Number("1.5")},
		{name: "string", payload: `"#dark"`, want: "#dark"},
		{name: "empty array", payload: `[]`, want: []any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDecoder().Decode(Context{}, []byte(tc.payload))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestDecodeObjectRejectsArray(t *testing.T) {
	_, err := NewDecoder().DecodeObject(Context{Source: "list"}, []byte(`[1]`))
	if !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
	if !strings.Contains(err.Error(), "list") {
		t.Fatalf("expected source in error, got %v", err)
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	_, err := NewDecoder().Decode(Context{}, []byte(`{} {}`))
	if err == nil || !strings.Contains(err.Error(), "trailing data") {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	decoder := NewDecoder(WithMaxDepth(2))
	if _, err := decoder.Decode(Context{}, []byte(`{"a":[1]}`)); err != nil {
		t.Fatalf("expected depth 2 to decode, got %v", err)
	}
	if _, err := decoder.Decode(Context{}, []byte(`{"a":[[1]]}`)); err == nil {
		t.Fatalf("expected depth error")
	}
}

func TestDecodeHooks(t *testing.T) {
	var seen Context
	decoder := NewDecoder(
		WithPreHook(func(ctx Context, payload []byte) ([]byte, error) {
			seen = ctx
			return bytes.ReplaceAll(payload, []byte("#old"), []byte("#new")), nil
		}),
		WithPostHook(func(_ Context, value any) (any, error) {
			object := value.(Object)
			return append(object, Field{Key: "added", Value: true}), nil
		}),
	)

	got, err := decoder.DecodeObject(Context{Source: "preset"}, []byte(`{"fill":"#old"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seen.Source != "preset" {
		t.Fatalf("expected context passed to hook, got %+v", seen)
	}
	want := Object{{Key: "fill", Value: "#new"}, {Key: "added", Value: true}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestDecodeHookErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	decoder := NewDecoder(WithPreHook(func(Context, []byte) ([]byte, error) { return nil, boom }))
	_, err := decoder.Decode(Context{Source: "x"}, []byte(`{}`))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped hook error, got %v", err)
	}
	if !strings.Contains(err.Error(), "pre-hook for x failed") {
		t.Fatalf("unexpected message: %v", err)
	}
}
