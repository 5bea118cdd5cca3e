package services

import "testing"

func TestDefaultMenu(t *testing.T) {
	menu := DefaultMenu()

	if len(menu) != 6 {
		t.Fatalf("expected 6 seed dishes, got %d", len(menu))
	}

	seen := map[string]bool{}
	for _, item := range menu {
		if item.Name == "" {
			t.Error("seed dish with empty name")
		}
		if seen[item.Name] {
			t.Errorf("duplicate seed dish %q", item.Name)
		}
		seen[item.Name] = true
		if item.Price <= 0 {
			t.Errorf("%s: non-positive price %v", item.Name, item.Price)
		}
		if item.Category == "" {
			t.Errorf("%s: empty category", item.Name)
		}
	}
}

func TestDefaultMenuReturnsFreshSlices(t *testing.T) {
	first := DefaultMenu()
	first[0].Name = "changed"

	if DefaultMenu()[0].Name == "changed" {
		t.Error("callers can corrupt the seed data")
	}
}
