package object

import (
	"io"
	"strings"
	"testing"
)

func TestNewUserKeyNamespacesByUser(t *testing.T) {
	a, err := NewUserKey("user-1", "my cv.pdf")
	if err != nil {
		t.Fatalf("NewUserKey: %v", err)
	}
	b, err := NewUserKey("user-1", "my cv.pdf")
	if err != nil {
		t.Fatalf("NewUserKey: %v", err)
	}
	if a == b {
		t.Fatalf("expected unique keys, got %s twice", a)
	}
	if strings.Split(a, "/")[0] != strings.Split(b, "/")[0] {
		t.Fatalf("expected same user namespace: %s vs %s", a, b)
	}
	if _, err := NewUserKey("user-1", "   "); err == nil {
		t.Fatalf("expected empty file name to fail")
	}
}

func TestSniffReplaysHead(t *testing.T) {
	mime, r, err := Sniff(strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", mime)
	}
	data, _ := io.ReadAll(r)
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("expected replayed content, got %q", data)
	}
}

func TestExportKey(t *testing.T) {
	key := ExportKey("u1", "exp-1", ".zip")
	if !strings.HasPrefix(key, "exports/") || !strings.HasSuffix(key, "/exp-1.zip") {
		t.Fatalf("unexpected export key %s", key)
	}
}
