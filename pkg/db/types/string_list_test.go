package dbtypes

import "testing"

func TestStringListScanAndValue(t *testing.T) {
	var list StringList
	if err := list.Scan(`["data:image/png;base64,AAA","data:image/png;base64,BBB"]`); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(list) != 2 || list[1] != "data:image/png;base64,BBB" {
		t.Fatalf("unexpected list %v", list)
	}

	v, err := list.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.(string) != `["data:image/png;base64,AAA","data:image/png;base64,BBB"]` {
		t.Fatalf("unexpected encoding %v", v)
	}
}

func TestStringListNilAndEmpty(t *testing.T) {
	var list StringList
	if err := list.Scan(nil); err != nil || len(list) != 0 {
		t.Fatalf("nil scan should give empty list, got %v err=%v", list, err)
	}
	if err := list.Scan([]byte{}); err != nil || len(list) != 0 {
		t.Fatalf("empty scan should give empty list, got %v err=%v", list, err)
	}
	v, _ := StringList(nil).Value()
	if v.(string) != "[]" {
		t.Fatalf("nil list should encode as [], got %v", v)
	}
	if err := list.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}
