package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storage-rental-backend/internal/domain"
)

const noAddon = "none"

var (
	quantityPattern = regexp.MustCompile(`(?i)quantity:\s*(\d+)`)
	durationPattern = regexp.MustCompile(`(?i)duration:\s*(\d+)\s*month`)
	addonPattern    = regexp.MustCompile(`(?i)add-on:\s*([^;(]+?)\s*(?:\(([^)]*)\))?\s*(?:;|$)`)
)

// DefaultNotes is what a reservation without readable notes is treated as.
func DefaultNotes() domain.BookingNotes {
	return domain.BookingNotes{
		Quantity:       1,
		DurationMonths: 1,
		AddonName:      noAddon,
		AddonCost:      decimal.Zero,
	}
}

// FormatNotes encodes booking details into the stored notes string.
func FormatNotes(n domain.BookingNotes) string {
	addon := noAddon
	if n.AddonName != "" && !strings.EqualFold(n.AddonName, noAddon) {
		addon = fmt.Sprintf("%s (%s)", n.AddonName, FormatAmount(n.AddonCost))
	}
	return fmt.Sprintf("Quantity: %d; Duration: %d month(s); Add-on: %s", n.Quantity, n.DurationMonths, addon)
}

// ParseNotes decodes a stored notes string. It never fails: every field that is
// missing or unreadable falls back to its default, and Parsed is false unless
// all three fields were read.
func ParseNotes(raw string) domain.NotesResult {
	notes := DefaultNotes()
	parsed := 0

	if m := quantityPattern.FindStringSubmatch(raw); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil && q >= 1 {
			notes.Quantity = q
			parsed++
		}
	}

	if m := durationPattern.FindStringSubmatch(raw); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil && d >= 1 {
			notes.DurationMonths = d
			parsed++
		}
	}

	if m := addonPattern.FindStringSubmatch(raw); m != nil {
		name := strings.TrimSpace(m[1])
		switch {
		case name == "":
		case strings.EqualFold(name, noAddon):
			parsed++
		default:
			cost, err := decimal.NewFromString(strings.TrimSpace(m[2]))
			if err == nil && !cost.IsNegative() {
				notes.AddonName = name
				notes.AddonCost = cost
				parsed++
			}
		}
	}

	return domain.NotesResult{Notes: notes, Parsed: parsed == 3}
}
