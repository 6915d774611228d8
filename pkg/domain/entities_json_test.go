package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLeaseUnmarshalJSONDefaultsActive(t *testing.T) {
	jsonData := `{
		"id": "l1",
		"unit_id": "u1",
		"tenant_id": "t1",
		"start": "2025-06-01",
		"end": "2026-05-31",
		"rent": 2800,
		"deposit": 2800
	}`

	var lease Lease
	if err := json.Unmarshal([]byte(jsonData), &lease); err != nil {
		t.Fatalf("Failed to unmarshal lease: %v", err)
	}
	if !lease.Active {
		t.Errorf("Expected lease without active flag to unmarshal as active")
	}
	if lease.Rent != 2800 {
		t.Errorf("Expected rent 2800, got %v", lease.Rent)
	}
}

func TestLeaseUnmarshalJSONExplicitInactive(t *testing.T) {
	jsonData := `{"id": "l2", "unit_id": "u1", "tenant_id": "t1", "active": false}`

	var lease Lease
	if err := json.Unmarshal([]byte(jsonData), &lease); err != nil {
		t.Fatalf("Failed to unmarshal lease: %v", err)
	}
	if lease.Active {
		t.Errorf("Expected explicit active=false to be preserved")
	}
}

func TestLeaseMarshalUnmarshalRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	original := Lease{
		Base: Base{
			ID:        "l3",
			CreatedAt: now.Add(-time.Hour),
			UpdatedAt: now,
		},
		UnitID:   "u3",
		TenantID: "t2",
		Start:    "2025-09-01",
		End:      "2026-08-31",
		Rent:     2500,
		Deposit:  2500,
		Active:   false,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal lease: %v", err)
	}

	var restored Lease
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal lease: %v", err)
	}
	if restored.ID != original.ID {
		t.Errorf("ID mismatch: expected %v, got %v", original.ID, restored.ID)
	}
	if restored.Active {
		t.Errorf("Expected ended lease to round-trip as inactive")
	}
	if restored.End != original.End {
		t.Errorf("End mismatch: expected %v, got %v", original.End, restored.End)
	}
}

func TestLeaseUnmarshalJSONInvalid(t *testing.T) {
	var lease Lease
	if err := lease.UnmarshalJSON([]byte(`{"active": json}`)); err == nil {
		t.Errorf("Expected error when unmarshaling invalid JSON for lease")
	}
}

func TestUnitMarshalJSONOmitsEmptyOptionalFields(t *testing.T) {
	feature := UnitFeature{
		Base:     Base{ID: "f1"},
		UnitID:   "u1",
		Category: "Appliance",
		Name:     "Dishwasher (Bosch)",
	}

	data, err := json.Marshal(feature)
	if err != nil {
		t.Fatalf("Failed to marshal unit feature: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if _, exists := result["warranty_expires"]; exists {
		t.Errorf("Expected warranty_expires to be omitted when empty")
	}
	if result["name"] != "Dishwasher (Bosch)" {
		t.Errorf("Expected name to survive marshaling, got %v", result["name"])
	}
}

func TestTaskFrequencyMonths(t *testing.T) {
	cases := []struct {
		frequency TaskFrequency
		months    int
	}{
		{FrequencyQuarterly, 3},
		{FrequencySemiAnnual, 6},
		{FrequencyAnnual, 12},
		{TaskFrequency("Weekly"), 12},
	}
	for _, tc := range cases {
		if got := tc.frequency.Months(); got != tc.months {
			t.Errorf("Expected %v to give %d months, got %d", tc.frequency, tc.months, got)
		}
	}
}
