package gamemap

// MapNames is the fixed match-number enumeration. Values outside it are
// rendered as Unknown, never rejected at write time.
var MapNames = map[int]string{
	1: "Erangle",
	2: "Miramar",
	3: "Rondo",
	4: "Sanhok",
	5: "Other",
}

// Name returns the map name for a match number, or "Unknown" when the
// number is outside the enumeration.
func Name(matchNumber int) string {
	if name, ok := MapNames[matchNumber]; ok {
		return name
	}
	return "Unknown"
}
