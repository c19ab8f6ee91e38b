package cloudstore

import (
	"testing"

	"cloud.google.com/go/firestore"

	"github.com/terraincognita07/registro/internal/models"
)

func TestCollectionPath(t *testing.T) {
	if got := CollectionPath("registro-app"); got != "artifacts/registro-app/public/data/daily_status" {
		t.Fatalf("unexpected collection path %q", got)
	}
}

func TestPatchFieldsCarriesOnlyPatchedValues(t *testing.T) {
	checkedIn := true
	fields := patchFields("u", "2024-05-01", models.RecordPatch{
		CheckedIn: &checkedIn,
		Goals:     map[string]bool{"salida_casa": true},
	})

	if fields["userId"] != "u" || fields["dateString"] != "2024-05-01" {
		t.Fatalf("missing identity fields: %v", fields)
	}
	if fields["timestamp"] != firestore.ServerTimestamp {
		t.Fatalf("timestamp = %v, want server timestamp", fields["timestamp"])
	}
	if fields["checkedIn"] != true {
		t.Fatalf("checkedIn = %v", fields["checkedIn"])
	}

	goals, ok := fields["fixedGoalsStatus"].(map[string]any)
	if !ok || len(goals) != 1 || goals["salida_casa"] != true {
		t.Fatalf("expected only the patched goal, got %v", fields["fixedGoalsStatus"])
	}

	for _, untouched := range []string{"emotionalStatus", "hasRelapsed", "hasCommunicatedWithRehab", "notes", "isLocked"} {
		if _, present := fields[untouched]; present {
			t.Fatalf("field %s must not be written by this patch", untouched)
		}
	}
}

func TestPatchFieldsRiskMapping(t *testing.T) {
	none := models.RiskNone
	cleared := patchFields("u", "2024-05-01", models.RecordPatch{EmotionalStatus: &none})
	value, present := cleared["emotionalStatus"]
	if !present || value != nil {
		t.Fatalf("cleared risk must be written as nil, got %v (present %v)", value, present)
	}

	critical := models.RiskCritical
	selected := patchFields("u", "2024-05-01", models.RecordPatch{EmotionalStatus: &critical})
	if selected["emotionalStatus"] != "CRITICO" {
		t.Fatalf("emotionalStatus = %v", selected["emotionalStatus"])
	}
}

func TestPatchFieldsWithoutGoalsLeavesMapAlone(t *testing.T) {
	notes := "sin novedades"
	fields := patchFields("u", "2024-05-01", models.RecordPatch{Notes: &notes})
	if _, present := fields["fixedGoalsStatus"]; present {
		t.Fatal("an empty goal patch must not overwrite the stored map")
	}
	if fields["notes"] != notes {
		t.Fatalf("notes = %v", fields["notes"])
	}
}

func TestRecordFieldsWritesWholeDocument(t *testing.T) {
	record := models.NewDailyRecord("u", "2024-05-01")
	record.FixedGoalsStatus["llegada_casa"] = true
	record.IsLocked = true

	fields := recordFields(record)
	if len(fields) != 10 {
		t.Fatalf("expected every document field, got %d: %v", len(fields), fields)
	}
	if fields["emotionalStatus"] != nil {
		t.Fatalf("unset risk must be nil, got %v", fields["emotionalStatus"])
	}
	if fields["timestamp"] != firestore.ServerTimestamp || fields["isLocked"] != true {
		t.Fatalf("unexpected fields %v", fields)
	}
	goals := fields["fixedGoalsStatus"].(map[string]any)
	if len(goals) != 1 || goals["llegada_casa"] != true {
		t.Fatalf("unexpected goals %v", goals)
	}

	record.EmotionalStatus = models.RiskLow
	if recordFields(record)["emotionalStatus"] != "BAJO" {
		t.Fatal("expected selected risk to be written")
	}
}
