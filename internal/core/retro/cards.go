package retro

import (
	"slices"
	"strings"
)

// DefaultColumns are created when no columns are configured.
var DefaultColumns = []string{"Went well", "Went meh", "Could have gone better", "Action items!"}

// BoardColumns returns the configured column names, or DefaultColumns when none are set.
func BoardColumns(configured []string) []string {
	if len(configured) == 0 {
		return slices.Clone(DefaultColumns)
	}
	return configured
}

// CardSpec is one "<template> => <column>" line of the cards setting.
type CardSpec struct {
	Template string
	Column   string
}

// ParseCards splits the cards setting into specs, last line first.
// The tracker inserts cards at the top of a column, so creating them in
// reverse keeps the board order equal to the configured order.
// Blank lines are dropped; a line without "=>" has an empty column.
func ParseCards(spec string) []CardSpec {
	var cards []CardSpec
	for _, line := range strings.Split(spec, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		text, column, _ := strings.Cut(line, "=>")
		cards = append(cards, CardSpec{
			Template: strings.TrimSpace(text),
			Column:   strings.TrimSpace(column),
		})
	}
	slices.Reverse(cards)
	return cards
}
