package services

import (
	"testing"
)

func TestValidateTypeSpecific_ValidHackathon(t *testing.T) {
	raw := `{"event_name":"Global Hack Week","deadline":"2026-10-01","prize_pool":"$5000"}`
	if fields := ValidateTypeSpecific("hackathon", raw); fields != nil {
		t.Errorf("expected no issues, got %v", fields)
	}
}

func TestValidateTypeSpecific_MissingRequired(t *testing.T) {
	fields := ValidateTypeSpecific("hackathon", `{"prize_pool":"$5000"}`)
	if fields == nil {
		t.Fatal("expected validation issues")
	}
	if _, ok := fields["event_name"]; !ok {
		t.Errorf("expected event_name issue, got %v", fields)
	}
	if _, ok := fields["deadline"]; !ok {
		t.Errorf("expected deadline issue, got %v", fields)
	}
}

func TestValidateTypeSpecific_BadDateFormat(t *testing.T) {
	fields := ValidateTypeSpecific("hackathon", `{"event_name":"Hack","deadline":"October 1st"}`)
	if fields == nil {
		t.Fatal("expected validation issues")
	}
	if msg, ok := fields["deadline"]; !ok {
		t.Errorf("expected deadline issue, got %v", fields)
	} else if msg != "must match format 2006-01-02" {
		t.Errorf("deadline message = %q", msg)
	}
}

func TestValidateTypeSpecific_UnknownType(t *testing.T) {
	fields := ValidateTypeSpecific("bounty", `{}`)
	if fields == nil {
		t.Fatal("unknown type must be rejected, not passed through")
	}
	if _, ok := fields["beacon_type"]; !ok {
		t.Errorf("expected beacon_type issue, got %v", fields)
	}
}

func TestValidateTypeSpecific_MalformedJSON(t *testing.T) {
	fields := ValidateTypeSpecific("learning", `{"learning_goals": `)
	if fields == nil {
		t.Fatal("expected validation issues")
	}
	if _, ok := fields["type_specific_data"]; !ok {
		t.Errorf("expected type_specific_data issue, got %v", fields)
	}
}

func TestValidateTypeSpecific_PerType(t *testing.T) {
	tests := []struct {
		name       string
		beaconType string
		raw        string
		wantField  string // empty means valid
	}{
		{"learning ok", "learning", `{"learning_goals":"master Go concurrency"}`, ""},
		{"learning missing goals", "learning", `{}`, "learning_goals"},
		{"portfolio ok", "portfolio", `{"target_audience":"recruiters","stack":"Go, React"}`, ""},
		{"portfolio missing stack", "portfolio", `{"target_audience":"recruiters"}`, "stack"},
		{"open source ok", "open_source", `{"repo_url":"https://github.com/acme/widgets","license":"MIT"}`, ""},
		{"open source bad url", "open_source", `{"repo_url":"not a url","license":"MIT"}`, "repo_url"},
		{"tutorial ok", "tutorial", `{"topic":"generics","format":"series"}`, ""},
		{"tutorial bad format", "tutorial", `{"topic":"generics","format":"podcast"}`, "format"},
		{"research ok", "research", `{"research_question":"does pairing improve review latency"}`, ""},
		{"research missing question", "research", `{}`, "research_question"},
		{"empty bag defaults to object", "portfolio", ``, "target_audience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ValidateTypeSpecific(tt.beaconType, tt.raw)
			if tt.wantField == "" {
				if fields != nil {
					t.Errorf("expected valid, got %v", fields)
				}
				return
			}
			if fields == nil {
				t.Fatalf("expected issue on %s", tt.wantField)
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Errorf("expected %s issue, got %v", tt.wantField, fields)
			}
		})
	}
}
