package main

import "testing"

func TestKnownPage(t *testing.T) {
	for _, token := range []string{"home", "gallery", "pricing", "about", "custom", "contact", "admin"} {
		if _, ok := KnownPage(token); !ok {
			t.Errorf("token %q should be known", token)
		}
	}
	if _, ok := KnownPage("checkout"); ok {
		t.Error("unknown token accepted")
	}
}

func TestNavigateReplacesUnconditionally(t *testing.T) {
	r := NewPageRouter()
	if r.Current() != PageHome {
		t.Fatalf("initial page = %q, want %q", r.Current(), PageHome)
	}

	// The admin token is navigable without authorization; the gate guards
	// at render time, not here.
	r.Navigate(PageAdmin)
	if r.Current() != PageAdmin {
		t.Fatalf("Current = %q after Navigate(admin)", r.Current())
	}

	r.Navigate(PageContact)
	if r.Current() != PageContact {
		t.Fatalf("Current = %q after Navigate(contact)", r.Current())
	}
}
