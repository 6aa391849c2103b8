package core

import (
	"strings"
	"testing"
)

func TestGenerateGUID(t *testing.T) {
	guid, err := GenerateGUID("msg")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(guid, "msg-") {
		t.Fatalf("missing prefix: %s", guid)
	}
	if len(guid) != len("msg-")+8 {
		t.Fatalf("unexpected length: %s", guid)
	}

	trailing, err := GenerateGUID("usr-")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.HasPrefix(trailing, "usr--") {
		t.Fatalf("trailing dash not normalized: %s", trailing)
	}
}

func TestGenerateGUIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		guid, err := GenerateGUID("msg")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, dup := seen[guid]; dup {
			t.Fatalf("duplicate guid: %s", guid)
		}
		seen[guid] = struct{}{}
	}
}

func TestGetGUIDPrefix(t *testing.T) {
	if got := GetGUIDPrefix("msg-abcdefgh", 4); got != "abcd" {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if got := GetGUIDPrefix("usr-abcdefgh", 6); got != "usr-ab" {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if got := GetGUIDPrefix("msg-ab", 10); got != "ab" {
		t.Fatalf("prefix should clamp to length: %s", got)
	}
}
