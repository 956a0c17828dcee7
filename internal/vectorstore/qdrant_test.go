package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestNewQdrantStore(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "host and port", url: "http://localhost:6333"},
		{name: "host only", url: "http://qdrant"},
		{name: "empty defaults to localhost", url: ""},
		{name: "invalid url", url: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewQdrantStore(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewQdrantStore(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if !tt.wantErr && store == nil {
				t.Error("NewQdrantStore() returned nil store")
			}
		})
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"source":      {Kind: &qdrant.Value_StringValue{StringValue: "/docs/a.pdf"}},
		"page":        {Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
		"score":       {Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.5}},
		"archived":    {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		"nil_value":   nil,
		"unset_value": {},
	}

	got := convertPayloadToMap(payload)

	if got["source"] != "/docs/a.pdf" {
		t.Errorf("source = %v", got["source"])
	}
	if got["page"] != int64(3) {
		t.Errorf("page = %v (%T)", got["page"], got["page"])
	}
	if got["score"] != 0.5 {
		t.Errorf("score = %v", got["score"])
	}
	if got["archived"] != true {
		t.Errorf("archived = %v", got["archived"])
	}
	if _, ok := got["nil_value"]; ok {
		t.Error("nil values should be skipped")
	}
	if got["unset_value"] != nil {
		t.Errorf("unset_value = %v, want nil", got["unset_value"])
	}
}

func TestConvertValue_Nested(t *testing.T) {
	value := &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{
		Values: []*qdrant.Value{
			{Kind: &qdrant.Value_StringValue{StringValue: "a"}},
			{Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{
				Fields: map[string]*qdrant.Value{
					"inner": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 7}},
				},
			}}},
		},
	}}}

	got, ok := convertValue(value).([]any)
	if !ok || len(got) != 2 {
		t.Fatalf("convertValue() = %v", got)
	}
	if got[0] != "a" {
		t.Errorf("got[0] = %v", got[0])
	}
	inner, ok := got[1].(map[string]any)
	if !ok || inner["inner"] != int64(7) {
		t.Errorf("got[1] = %v", got[1])
	}
}
