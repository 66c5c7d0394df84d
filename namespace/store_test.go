package namespace

import (
	"errors"
	"testing"
)

func TestPutBindingOverwrites(t *testing.T) {
	s := NewStore()
	s.PutBinding("/tmp/a.js", "x", 1)
	s.PutBinding("/tmp/a.js", "x", 2)

	snap := s.Snapshot("/tmp/a.js")
	if len(snap.Bindings) != 1 {
		t.Fatalf("expected exactly one binding, got %d", len(snap.Bindings))
	}
	if snap.Bindings["x"].Value != 2 {
		t.Errorf("expected x=2, got %v", snap.Bindings["x"].Value)
	}
}

func TestPutExportMissingLocal(t *testing.T) {
	s := NewStore()
	err := s.PutExport("/tmp/a.js", "missing", Named("missing"))
	if err == nil {
		t.Fatal("expected MissingLocalError, got nil")
	}
	var mle *MissingLocalError
	if !errors.As(err, &mle) {
		t.Fatalf("expected *MissingLocalError, got %T: %v", err, err)
	}
}

func TestResolveWalksExportChain(t *testing.T) {
	s := NewStore()
	s.PutBinding("/tmp/a.js", "v", 42)
	if err := s.PutExport("/tmp/a.js", "v", Named("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, ok := s.Resolve("/tmp/a.js", Named("v"))
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if val != 42 {
		t.Errorf("expected 42, got %v", val)
	}
}

func TestResolveMissingIsUndefinedNotError(t *testing.T) {
	s := NewStore()
	if _, ok := s.Resolve("/tmp/never-evaluated.js", Named("v")); ok {
		t.Error("expected resolution against an unevaluated namespace to fail silently")
	}
}

func TestHasBeenEvaluatedBreaksCycles(t *testing.T) {
	s := NewStore()
	if s.HasBeenEvaluated("/tmp/a.js") {
		t.Fatal("fresh store should report unevaluated")
	}
	s.Mark("/tmp/a.js")
	if !s.HasBeenEvaluated("/tmp/a.js") {
		t.Error("Mark should make HasBeenEvaluated true even with no bindings yet")
	}
}

func TestDefaultAndNamespaceSentinelsNeverCollideWithNames(t *testing.T) {
	if Named("[default]") == DefaultExport {
		t.Error("a literal string matching the sentinel's debug tag must not compare equal to it")
	}
	if Named("[namespace]") == NamespaceExport {
		t.Error("a literal string matching the sentinel's debug tag must not compare equal to it")
	}
}

func TestResetNamespaceLeavesOthersIntact(t *testing.T) {
	s := NewStore()
	s.PutBinding("/tmp/a.js", "x", 1)
	s.PutBinding("/tmp/b.js", "y", 2)

	s.ResetNamespace("/tmp/a.js")

	if s.HasBeenEvaluated("/tmp/a.js") {
		t.Error("expected a.js to be cleared")
	}
	if !s.HasBeenEvaluated("/tmp/b.js") {
		t.Error("expected b.js to remain")
	}
}
