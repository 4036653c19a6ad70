package store

import (
	"errors"
	"os"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	st := NewFileStore(t.TempDir())

	if st.Exists("feeds/players.csv") {
		t.Fatalf("expected empty store")
	}
	if _, err := st.ReadRaw("feeds/players.csv"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	body := []byte("name,team\nSaka,ARS\n")
	if err := st.WriteRaw("feeds/players.csv", body); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !st.Exists("feeds/players.csv") {
		t.Fatalf("expected file to exist after write")
	}
	got, err := st.ReadRaw("feeds/players.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("got %q, want %q", got, body)
	}
	if _, err := st.ModTime("feeds/players.csv"); err != nil {
		t.Fatalf("modtime: %v", err)
	}

	if err := st.WriteRaw("feeds/players.csv", []byte("name\n")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = st.ReadRaw("feeds/players.csv")
	if string(got) != "name\n" {
		t.Fatalf("overwrite not applied: %q", got)
	}

	entries, _ := os.ReadDir(st.Path("feeds"))
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, found %d entries", len(entries))
	}
}
