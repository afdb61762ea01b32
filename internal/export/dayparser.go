// Package export renders a trip and its plan into shareable artifacts:
// a Markdown document and an iCalendar file. Rendering is best effort —
// a plan whose text does not follow the expected day structure still
// exports, just with fewer calendar entries.
package export

import (
	"regexp"
	"strconv"
	"strings"
)

// daySection is one parsed "Giorno N" / "Day N" block of a plan.
type daySection struct {
	Number    int
	Morning   string
	Afternoon string
	Evening   string
}

var (
	dayHeading  = regexp.MustCompile(`(?mi)^#{0,4}\s*\**\s*(?:giorno|day)\s+(\d+)`)
	slotHeading = regexp.MustCompile(`(?mi)^[-*\s]*\**(mattina|pomeriggio|sera)\**\s*[:\-]?\s*`)
)

// parseDays extracts day sections from a plan text. Parsing never fails:
// text without recognizable day headings yields an empty slice, and a
// day without slot headings yields a section with empty slots.
func parseDays(plan string) []daySection {
	matches := dayHeading.FindAllStringSubmatchIndex(plan, -1)
	if len(matches) == 0 {
		return nil
	}

	var days []daySection
	for i, m := range matches {
		number, err := strconv.Atoi(plan[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(plan)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		section := daySection{Number: number}
		section.Morning, section.Afternoon, section.Evening = parseSlots(plan[m[1]:end])
		days = append(days, section)
	}
	return days
}

// parseSlots splits a day block into its Mattina/Pomeriggio/Sera parts.
func parseSlots(block string) (morning, afternoon, evening string) {
	matches := slotHeading.FindAllStringSubmatchIndex(block, -1)
	for i, m := range matches {
		end := len(block)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := summarize(block[m[1]:end])
		switch strings.ToLower(block[m[2]:m[3]]) {
		case "mattina":
			morning = text
		case "pomeriggio":
			afternoon = text
		case "sera":
			evening = text
		}
	}
	return morning, afternoon, evening
}

// summarize collapses a slot body into a single compact line.
func summarize(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(line, " \t-*")
		if line != "" {
			parts = append(parts, line)
		}
	}
	out := strings.Join(parts, "; ")
	const maxSlotLen = 200
	if len(out) > maxSlotLen {
		out = out[:maxSlotLen]
	}
	return out
}
