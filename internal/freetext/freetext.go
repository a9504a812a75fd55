// Package freetext decomposes free-form description strings from travel
// bookings into structured sub-fields. Upstream systems pack several
// attributes into one cell ("Amaris Hotel Smart Queen 2 ANDI FADLI"), so
// extraction runs as ordered pattern cascades: first match wins, the matched
// substring is consumed, and ordering is load-bearing because general
// patterns would shadow specific ones.
package freetext

import "strings"

// LodgingInfo is the structured form of a hotel booking description.
type LodgingInfo struct {
	Venue      string
	RoomClass  string
	Person     string
	Decomposed bool
}

// TransportInfo is the structured form of a flight booking description.
// Upstream emits these sub-fields on separate lines rather than packed into
// a single tail, so they are recognized per line.
type TransportInfo struct {
	Origin      string
	Destination string
	TripType    string
	Carrier     string
	Person      string
	Email       string
	Passengers  int
	Decomposed  bool
}

// structuralWords are tokens that terminate name candidates: they describe
// rooms, quantities or places, never people. Compared upper-cased.
var structuralWords = map[string]bool{
	"BED": true, "BEDS": true, "ROOM": true, "ROOMS": true, "KAMAR": true,
	"TWIN": true, "DOUBLE": true, "SINGLE": true, "QUEEN": true, "KING": true,
	"NIGHT": true, "NIGHTS": true, "MALAM": true, "PAX": true,
	"BREAKFAST": true, "HOTEL": true, "RESORT": true, "VILLA": true,
	"SUPERIOR": true, "DELUXE": true, "SUITE": true, "EXECUTIVE": true,
	"PREMIER": true, "STUDIO": true, "FLOOR": true, "VIEW": true,
	"JAKARTA": true, "BANDUNG": true, "SURABAYA": true, "BALI": true,
	"MEDAN": true, "SEMARANG": true, "YOGYAKARTA": true, "DENPASAR": true,
	"MAKASSAR": true, "BATAM": true, "AIRPORT": true, "SYARIAH": true,
	"EXPRESS": true, "PREMIERE": true,
}

func isStructural(word string) bool {
	return structuralWords[strings.ToUpper(word)]
}

func anyStructural(phrase string) bool {
	for _, w := range strings.Fields(phrase) {
		if isStructural(w) {
			return true
		}
	}
	return false
}
