package events

import "testing"

func TestRecordEventJSON(t *testing.T) {
	e := NewRecordEvent(KindInvoice, ActionAppended, "k1x9")
	body, err := e.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	back, err := RecordEventFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if back.Kind != KindInvoice || back.Action != ActionAppended || back.RecordID != "k1x9" {
		t.Fatalf("round trip = %+v", back)
	}
	if back.Timestamp.IsZero() {
		t.Fatal("timestamp lost in round trip")
	}
}

func TestRecordEventFromJSONInvalid(t *testing.T) {
	if _, err := RecordEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
