package freetext

import "testing"

func TestPerson_Cascade(t *testing.T) {
	tests := []struct {
		input     string
		wantName  string
		wantRest  string
	}{
		// (a) lower-case two-word tail
		{"Hotel Santika Premiere budi santoso", "budi santoso", "Hotel Santika Premiere"},
		// (b) duplicated single word means the name repeated
		{"Favehotel Kelapa Gading Budi Budi", "Budi", "Favehotel Kelapa Gading"},
		// (c) number then one capitalized word
		{"Ibis Styles Tangerang 2 Ratna", "Ratna", "Ibis Styles Tangerang"},
		// (d) number then multi-word capitalized name
		{"Amaris Hotel Smart Queen 2 ANDI FADLI", "ANDI FADLI", "Amaris Hotel Smart Queen"},
		// (e) all-caps multi-word tail
		{"Swiss-Belhotel Mangga Besar DEWI LESTARI", "DEWI LESTARI", "Swiss-Belhotel Mangga Besar"},
		// structural keywords never become names
		{"Harris Hotel 1 King Bed", "", "Harris Hotel 1 King Bed"},
		{"Aston Priority JAKARTA PUSAT", "", "Aston Priority JAKARTA PUSAT"},
		// no candidate at all
		{"Mercure Convention Center", "", "Mercure Convention Center"},
		{"", "", ""},
	}

	for _, tc := range tests {
		name, rest := Person(tc.input)
		if name != tc.wantName || rest != tc.wantRest {
			t.Errorf("Person(%q) = (%q, %q), want (%q, %q)", tc.input, name, rest, tc.wantName, tc.wantRest)
		}
	}
}

func TestPerson_OrderSensitive(t *testing.T) {
	// The lower-case rule sits before the duplicated-word rule, so a
	// lower-case duplicated pair resolves as a two-word name.
	name, _ := Person("Hotel Citradream sari sari")
	if name != "sari sari" {
		t.Errorf("expected lowercase-pair rule to win, got %q", name)
	}
}
