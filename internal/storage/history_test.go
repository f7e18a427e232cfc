package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestComparisonRoundTrip(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	want := Comparison{
		ID:         "cmp-1",
		CreatedAt:  now,
		CodeA:      "US",
		CodeB:      "KR",
		Context:    "negotiation",
		ResultJSON: `{"context":"negotiation"}`,
	}
	if err := s.SaveComparison(want); err != nil {
		t.Fatalf("SaveComparison: %v", err)
	}

	got, err := s.GetComparison("cmp-1")
	if err != nil {
		t.Fatalf("GetComparison: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comparison mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.GetComparison("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetComparison(missing): err = %v, want ErrNotFound", err)
	}
}

func TestListComparisons_NewestFirstWithPaging(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"c1", "c2", "c3"} {
		c := Comparison{
			ID:         id,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			CodeA:      "US",
			CodeB:      "DE",
			Context:    "feedback",
			ResultJSON: "{}",
		}
		if err := s.SaveComparison(c); err != nil {
			t.Fatalf("SaveComparison %s: %v", id, err)
		}
	}

	page, err := s.ListComparisons(2, 0)
	if err != nil {
		t.Fatalf("ListComparisons: %v", err)
	}
	if len(page) != 2 || page[0].ID != "c3" || page[1].ID != "c2" {
		t.Errorf("first page = %+v, want c3, c2", page)
	}

	page, err = s.ListComparisons(2, 2)
	if err != nil {
		t.Fatalf("ListComparisons offset: %v", err)
	}
	if len(page) != 1 || page[0].ID != "c1" {
		t.Errorf("second page = %+v, want c1", page)
	}

	if err := s.DeleteComparison("c2"); err != nil {
		t.Fatalf("DeleteComparison: %v", err)
	}
	if err := s.DeleteComparison("c2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteComparison: err = %v, want ErrNotFound", err)
	}
}

func TestPreferences(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetPreference("language"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPreference on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.SetPreference("language", "en"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if err := s.SetPreference("language", "ko"); err != nil {
		t.Fatalf("SetPreference overwrite: %v", err)
	}
	if err := s.SetPreference("disclaimer_seen", "true"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	got, err := s.GetAllPreferences()
	if err != nil {
		t.Fatalf("GetAllPreferences: %v", err)
	}
	want := map[string]string{"language": "ko", "disclaimer_seen": "true"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("preferences (-want +got):\n%s", diff)
	}
}
