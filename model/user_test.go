package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshalJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2012-09-01"`), &d); err != nil {
		t.Fatalf("failed to parse date: %v", err)
	}

	got := d.Time()
	if got.Year() != 2012 || got.Month() != time.September || got.Day() != 1 {
		t.Errorf("unexpected date %v", got)
	}
}

func TestDateUnmarshalRFC3339Fallback(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2012-09-01T10:30:00Z"`), &d); err != nil {
		t.Fatalf("failed to parse RFC 3339 date: %v", err)
	}
	if d.Time().Day() != 1 {
		t.Errorf("unexpected day %d", d.Time().Day())
	}
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"01/09/2012"`), &d); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestDateMarshalJSON(t *testing.T) {
	d := Date(time.Date(2012, time.September, 1, 0, 0, 0, 0, time.UTC))
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"2012-09-01"` {
		t.Errorf("expected \"2012-09-01\", got %s", out)
	}
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	u := User{FirstName: "Aziz", Email: "a@b.uz", Password: "secret-hash"}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) == "" || json.Valid(out) == false {
		t.Fatal("expected valid JSON")
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded["password"]; ok {
		t.Error("password must never appear in JSON output")
	}
}
