package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	if AttrMethod == "" || AttrPath == "" || AttrStatus == "" || AttrOperation == "" || AttrOutcome == "" {
		t.Fatalf("expected metric attribute keys to be non-empty")
	}
	if OpAdd == OpUpdate || OpUpdate == OpEnd || OpAdd == OpEnd {
		t.Fatalf("expected distinct operation names")
	}
}
