package retro

import "slices"

// NextDriver picks the roster member after lastDriver.
//
// With no history the first handle drives. When lastDriver has left the roster
// the rotation resumes from the position they held (lastOffset), so the
// members after them are not skipped. Callers must reject an empty roster.
func NextDriver(roster []string, lastDriver string, lastOffset int) string {
	if len(roster) == 0 {
		return ""
	}
	if lastDriver == "" {
		return roster[0]
	}

	pos := slices.Index(roster, lastDriver)
	if pos < 0 {
		pos = lastOffset - 1
	}

	n := len(roster)
	return roster[((pos+1)%n+n)%n]
}

// DriverOffset returns the roster index recorded alongside driver.
func DriverOffset(roster []string, driver string) int {
	return slices.Index(roster, driver)
}
