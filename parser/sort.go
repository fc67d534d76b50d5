package parser

import (
	"sort"
	"strconv"
	"strings"
)

// CompareSectionCodes orders section codes naturally: dotted numeric
// segments compare as numbers, so "1.2" sorts before "1.10". Segments
// that are not numeric fall back to string comparison.
func CompareSectionCodes(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])

		if aErr == nil && bErr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}

		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// SortSections orders sections in place by natural section-code order.
func SortSections(sections []*ParsedSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return CompareSectionCodes(sections[i].SectionCode, sections[j].SectionCode) < 0
	})
}
