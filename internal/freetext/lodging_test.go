package freetext

import "testing"

func TestLodging_Decompose(t *testing.T) {
	tests := []struct {
		input     string
		wantVenue string
		wantClass string
		wantName  string
	}{
		{"Amaris Hotel Smart Queen 2 ANDI FADLI", "Amaris Hotel", "Smart Queen", "ANDI FADLI"},
		{"Hotel Mulia Senayan Deluxe 1 King Bed BUDI SANTOSO", "Hotel Mulia Senayan", "Deluxe 1 King Bed", "BUDI SANTOSO"},
		{"Santika Premiere Superior Twin", "Santika Premiere", "Superior Twin", ""},
		{"Grand Hyatt Presidential Suite", "Grand Hyatt", "Presidential Suite", ""},
		{"Pop Hotel Double Bed", "Pop Hotel", "Double Bed", ""},
		{"Ibis Budget Standard Room rina wati", "Ibis Budget", "Standard Room", "rina wati"},
	}

	for _, tc := range tests {
		got := Lodging(tc.input, "")
		if !got.Decomposed {
			t.Errorf("Lodging(%q) not decomposed: %+v", tc.input, got)
			continue
		}
		if got.Venue != tc.wantVenue || got.RoomClass != tc.wantClass || got.Person != tc.wantName {
			t.Errorf("Lodging(%q) = %+v, want venue=%q class=%q person=%q",
				tc.input, got, tc.wantVenue, tc.wantClass, tc.wantName)
		}
	}
}

func TestLodging_SpecificBeatsGeneral(t *testing.T) {
	// "Superior 1 Double Bed" must be consumed whole, not just "Double Bed".
	got := Lodging("Harper MT Haryono Superior 1 Double Bed", "")
	if got.RoomClass != "Superior 1 Double Bed" {
		t.Errorf("expected the specific pattern to win, got class %q", got.RoomClass)
	}
	if got.Venue != "Harper MT Haryono" {
		t.Errorf("unexpected venue %q", got.Venue)
	}
}

func TestLodging_NoPatternPassesThrough(t *testing.T) {
	got := Lodging("Penginapan Sederhana Dekat Stasiun", "")
	if got.Decomposed {
		t.Fatalf("expected pass-through, got %+v", got)
	}
	if got.Venue != "Penginapan Sederhana Dekat Stasiun" || got.RoomClass != "" || got.Person != "" {
		t.Errorf("pass-through should keep the whole string as venue: %+v", got)
	}
}

func TestLodging_KnownVenueStripped(t *testing.T) {
	got := Lodging("Amaris Hotel Smart Queen", "Amaris Hotel")
	if got.Venue != "Amaris Hotel" || got.RoomClass != "Smart Queen" {
		t.Errorf("unexpected result with known venue: %+v", got)
	}
}

func TestLodging_Empty(t *testing.T) {
	got := Lodging("", "")
	if got.Venue != "" || got.Decomposed {
		t.Errorf("empty input should yield zero value, got %+v", got)
	}
}
