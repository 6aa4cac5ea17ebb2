package logtail

import (
	"os"
	"path/filepath"
	"testing"
)

func statFile(t *testing.T, path string) os.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat(%s): %v", path, err)
	}
	return info
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.log")
	writeFile(t, path, "0123456789")
	original := statFile(t, path)

	// Hold the original open so its inode number cannot be recycled by the
	// replacement files below.
	keep, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = keep.Close() })

	t.Run("unchanged", func(t *testing.T) {
		prev := Meta{Size: 10, Offset: 10, Identity: original}
		if got := Detect(prev, statFile(t, path)); got != ChangeNone {
			t.Fatalf("Detect = %v, want none", got)
		}
	})

	t.Run("first observation", func(t *testing.T) {
		if got := Detect(Meta{}, original); got != ChangeNone {
			t.Fatalf("Detect = %v, want none", got)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		prev := Meta{Size: 10, Offset: 10, Identity: original}
		if got := Detect(prev, nil); got != ChangeDeleted {
			t.Fatalf("Detect = %v, want deleted", got)
		}
	})

	t.Run("deleted while empty", func(t *testing.T) {
		if got := Detect(Meta{Identity: original}, nil); got != ChangeDeleted {
			t.Fatalf("Detect = %v, want deleted", got)
		}
	})

	t.Run("never existed", func(t *testing.T) {
		if got := Detect(Meta{}, nil); got != ChangeNone {
			t.Fatalf("Detect = %v, want none", got)
		}
	})

	t.Run("truncated in place", func(t *testing.T) {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		_, _ = f.WriteString("0123")
		_ = f.Close()

		prev := Meta{Size: 10, Offset: 10, Identity: original}
		if got := Detect(prev, statFile(t, path)); got != ChangeTruncated {
			t.Fatalf("Detect = %v, want truncated", got)
		}
	})

	t.Run("replaced wins over truncated", func(t *testing.T) {
		tmp := filepath.Join(dir, "train.log.new")
		writeFile(t, tmp, "01")
		if err := os.Rename(tmp, path); err != nil {
			t.Fatalf("Rename: %v", err)
		}
		prev := Meta{Size: 10, Offset: 10, Identity: original}
		if got := Detect(prev, statFile(t, path)); got != ChangeReplaced {
			t.Fatalf("Detect = %v, want replaced", got)
		}
	})

	t.Run("replaced with larger file", func(t *testing.T) {
		tmp := filepath.Join(dir, "train.log.bigger")
		writeFile(t, tmp, "0123456789abcdef")
		if err := os.Rename(tmp, path); err != nil {
			t.Fatalf("Rename: %v", err)
		}
		prev := Meta{Size: 10, Offset: 10, Identity: original}
		if got := Detect(prev, statFile(t, path)); got != ChangeReplaced {
			t.Fatalf("Detect = %v, want replaced", got)
		}
	})
}

func TestChangeReasonString(t *testing.T) {
	tests := map[ChangeReason]string{
		ChangeNone:      "none",
		ChangeTruncated: "truncated",
		ChangeReplaced:  "replaced",
		ChangeDeleted:   "deleted",
	}
	for reason, want := range tests {
		if got := reason.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", reason, got, want)
		}
	}
}
