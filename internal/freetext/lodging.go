package freetext

import (
	"regexp"
	"strings"
)

// lodgingPatternSources is the ordered room-class cascade. Most-specific
// patterns come first: "Superior 1 Double Bed" must win before the bare
// "Double Bed" pattern gets a chance, so do not reorder entries. Every
// pattern is matched case-insensitively against the tail of the remaining
// description.
var lodgingPatternSources = []string{
	`Grand Deluxe \d+ (?:Double|Twin|Queen|King) Beds?`,
	`Junior Suite \d+ (?:Double|Twin|Queen|King) Beds?`,
	`Superior \d+ Double Beds?`,
	`Superior \d+ Twin Beds?`,
	`Superior \d+ Queen Beds?`,
	`Superior \d+ King Beds?`,
	`Deluxe \d+ Double Beds?`,
	`Deluxe \d+ Twin Beds?`,
	`Deluxe \d+ Queen Beds?`,
	`Deluxe \d+ King Beds?`,
	`Executive \d+ Double Beds?`,
	`Executive \d+ Twin Beds?`,
	`Executive \d+ Queen Beds?`,
	`Executive \d+ King Beds?`,
	`Premier \d+ (?:Double|Twin|Queen|King) Beds?`,
	`Studio \d+ (?:Double|Twin|Queen|King) Beds?`,
	`Family \d+ (?:Double|Twin|Queen|King) Beds?`,
	`Standard \d+ (?:Double|Twin|Queen|King) Beds?`,
	`Smart Queen \d+`,
	`Smart King \d+`,
	`Smart Twin \d+`,
	`Smart Queen`,
	`Smart King`,
	`Smart Twin`,
	`Grand Deluxe (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Junior Suite(?: (?:Double|Twin|Queen|King))?(?: Beds?)?`,
	`Presidential Suite`,
	`Executive Suite`,
	`Superior (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Deluxe (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Executive (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Premier (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Business (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Family (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Standard (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Classic (?:Double|Twin|Queen|King)(?: Beds?)?`,
	`Superior Room`,
	`Deluxe Room`,
	`Executive Room`,
	`Standard Room`,
	`Suite Room`,
	`Double Beds?`,
	`Twin Beds?`,
	`Queen Beds?`,
	`King Beds?`,
	`Suite`,
}

var lodgingPatterns = compileLodgingPatterns()

func compileLodgingPatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(lodgingPatternSources))
	for _, src := range lodgingPatternSources {
		out = append(out, regexp.MustCompile(`(?i)\b`+src+`$`))
	}
	return out
}

// Lodging decomposes a hotel booking description. The person-name cascade
// runs first because names and room classes both sit at the tail of the
// string; the room-class cascade then consumes the tail of what remains, and
// the trimmed leftover is the venue name. A description that matches no
// room-class pattern is passed through whole as the venue, flagged as not
// decomposed. knownVenue, when already resolved by an earlier import, is
// stripped from the head before pattern matching.
func Lodging(desc, knownVenue string) LodgingInfo {
	s := strings.TrimSpace(desc)
	if s == "" {
		return LodgingInfo{}
	}

	person, rest := Person(s)

	if knownVenue != "" {
		if cut, ok := cutFoldPrefix(rest, knownVenue); ok {
			rest = cut
		}
	}

	for _, re := range lodgingPatterns {
		loc := re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		class := strings.TrimSpace(rest[loc[0]:loc[1]])
		venue := strings.Trim(strings.TrimSpace(rest[:loc[0]]), "-, ")
		if venue == "" {
			venue = knownVenue
		}
		return LodgingInfo{
			Venue:      venue,
			RoomClass:  class,
			Person:     person,
			Decomposed: true,
		}
	}

	venue := rest
	if venue == "" {
		venue = knownVenue
	}
	return LodgingInfo{Venue: venue, Person: person}
}

func cutFoldPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) {
		return s, false
	}
	if !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}
