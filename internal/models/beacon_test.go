package models

import "testing"

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{BeaconStatusDraft, BeaconStatusActive, true},
		{BeaconStatusDraft, BeaconStatusCancelled, true},
		{BeaconStatusDraft, BeaconStatusPaused, false},
		{BeaconStatusDraft, BeaconStatusCompleted, false},
		{BeaconStatusActive, BeaconStatusPaused, true},
		{BeaconStatusActive, BeaconStatusCompleted, true},
		{BeaconStatusActive, BeaconStatusCancelled, true},
		{BeaconStatusActive, BeaconStatusDraft, false},
		{BeaconStatusPaused, BeaconStatusActive, true},
		{BeaconStatusPaused, BeaconStatusCompleted, true},
		{BeaconStatusPaused, BeaconStatusCancelled, true},
		{BeaconStatusPaused, BeaconStatusDraft, false},
		{BeaconStatusCompleted, BeaconStatusActive, false},
		{BeaconStatusCompleted, BeaconStatusCancelled, false},
		{BeaconStatusCancelled, BeaconStatusActive, false},
		{BeaconStatusCancelled, BeaconStatusDraft, false},
	}

	for _, tt := range tests {
		if got := ValidStatusTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("ValidStatusTransition(%s, %s) = %v, expected %v", tt.from, tt.to, got, tt.want)
		}
	}
}
