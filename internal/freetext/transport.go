package freetext

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	routeRe      = regexp.MustCompile(`\b([A-Z]{3})\s*[-–]\s*([A-Z]{3})\b`)
	paxRe        = regexp.MustCompile(`(?i)\b(\d+)\s*(?:pax|orang|penumpang)\b`)
	flightCodeRe = regexp.MustCompile(`\b([A-Z]{2})[- ]?\d{2,4}\b`)
	emailRe      = regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.]+\b`)
	nameLineRe   = regexp.MustCompile(`^[A-Z][A-Za-z.']*(?: [A-Z][A-Za-z.']*)+$`)
)

// tripTypeKeywords map recognized markers to the canonical trip-type label.
// Checked in order; "round trip" variants before the short "PP" marker.
var tripTypeKeywords = []struct {
	marker string
	label  string
}{
	{"ROUND TRIP", "round trip"},
	{"PULANG PERGI", "round trip"},
	{"ONE WAY", "one way"},
	{"PP", "round trip"},
	{"OW", "one way"},
}

// carrierNames are airline names as they appear in descriptions.
var carrierNames = []string{
	"GARUDA", "CITILINK", "LION", "BATIK", "SRIWIJAYA", "AIRASIA", "PELITA",
	"SUPER AIR JET", "TRANSNUSA", "WINGS",
}

// Transport decomposes a flight booking description. Unlike lodging text,
// the upstream source emits these attributes on separate lines, so every
// line is tested independently for a route pair, a trip-type marker, a
// passenger count, a carrier, an e-mail address, and a passenger name line.
func Transport(desc string) TransportInfo {
	var info TransportInfo

	lines := strings.Split(strings.ReplaceAll(desc, "\r\n", "\n"), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false

		if m := routeRe.FindStringSubmatch(line); m != nil && info.Origin == "" {
			info.Origin, info.Destination = m[1], m[2]
			info.Decomposed = true
			matched = true
		}

		if label := matchTripType(line); label != "" && info.TripType == "" {
			info.TripType = label
			info.Decomposed = true
			matched = true
		}

		if m := paxRe.FindStringSubmatch(line); m != nil && info.Passengers == 0 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				info.Passengers = n
				info.Decomposed = true
				matched = true
			}
		}

		if c := matchCarrier(line); c != "" && info.Carrier == "" {
			info.Carrier = c
			info.Decomposed = true
			matched = true
		}

		if m := emailRe.FindString(line); m != "" && info.Email == "" {
			info.Email = m
			info.Decomposed = true
			matched = true
		}

		if !matched && info.Person == "" && nameLineRe.MatchString(line) && !anyStructural(line) {
			info.Person = line
			info.Decomposed = true
		}
	}

	return info
}

func matchTripType(line string) string {
	upper := strings.ToUpper(line)
	for _, kw := range tripTypeKeywords {
		if len(kw.marker) <= 2 {
			// Short markers only count as standalone words.
			for _, w := range strings.Fields(upper) {
				if w == kw.marker {
					return kw.label
				}
			}
			continue
		}
		if strings.Contains(upper, kw.marker) {
			return kw.label
		}
	}
	return ""
}

func matchCarrier(line string) string {
	upper := strings.ToUpper(line)
	for _, name := range carrierNames {
		if strings.Contains(upper, name) {
			return name
		}
	}
	if m := flightCodeRe.FindString(line); m != "" {
		return m
	}
	return ""
}
