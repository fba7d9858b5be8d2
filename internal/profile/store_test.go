package profile

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Path: filepath.Join(t.TempDir(), "profiles.toml")}
}

func TestStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	cat, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Profiles) != 0 {
		t.Errorf("expected empty catalog, got %d profiles", len(cat.Profiles))
	}
}

func TestStore_PutLookupRoundTrip(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	p := Profile{
		Name:      "ravi",
		Date:      "1990-03-10",
		Time:      "12:55:00",
		Timezone:  "Asia/Kolkata",
		Latitude:  15.83,
		Longitude: 78.04,
		Label:     "Kurnool, India",
	}
	if err := s.Put(p); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Lookup("ravi")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_PutReplaces(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Put(Profile{Name: "a", Date: "2000-01-01", Time: "00:00:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Profile{Name: "a", Date: "2001-02-02", Time: "03:00:00"}); err != nil {
		t.Fatal(err)
	}

	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 profile after upsert, got %d", len(all))
	}
	if all[0].Date != "2001-02-02" {
		t.Errorf("Date = %q, want replaced value", all[0].Date)
	}
}

func TestStore_LookupNotFound(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Put(Profile{Name: "alice", Date: "1985-06-01", Time: "08:30:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Profile{Name: "bob", Date: "1992-12-24", Time: "23:10:00"}); err != nil {
		t.Fatal(err)
	}

	_, err := s.Lookup("carol")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if diff := cmp.Diff([]string{"alice", "bob"}, nf.Known); diff != "" {
		t.Errorf("known names mismatch (-want +got):\n%s", diff)
	}
	msg := nf.Error()
	if !strings.Contains(msg, "alice") || !strings.Contains(msg, "bob") {
		t.Errorf("error message %q does not list known profiles", msg)
	}
}

func TestStore_LookupNotFound_Empty(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	_, err := s.Lookup("ghost")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if !strings.Contains(nf.Error(), "no profiles saved") {
		t.Errorf("error message %q should mention no profiles are saved", nf.Error())
	}
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Put(Profile{Name: "gone", Date: "1970-01-01", Time: "00:00:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("gone"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	var nf *NotFoundError
	if err := s.Remove("gone"); !errors.As(err, &nf) {
		t.Errorf("second Remove err = %v, want NotFoundError", err)
	}
}

func TestValidName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"ravi", true},
		{"jane-doe", true},
		{"user_2", true},
		{"now", false},
		{"", false},
		{"has space", false},
		{"1990-03-10", true}, // looks like a date; the resolver disambiguates, not the store
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
