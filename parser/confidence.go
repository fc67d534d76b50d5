package parser

// Score rates extraction quality for one section. It is a pure function
// of the extracted items and section total:
//
//	failed  no items at all
//	high    more than half the items priced and a positive total
//	medium  more than a fifth priced, or more than three items
//	low     everything else
func Score(items []ParsedItem, boqTotal float64) Confidence {
	if len(items) == 0 {
		return ConfidenceFailed
	}

	priced := 0
	for _, item := range items {
		if item.Amount > 0 {
			priced++
		}
	}
	fraction := float64(priced) / float64(len(items))

	switch {
	case fraction > 0.5 && boqTotal > 0:
		return ConfidenceHigh
	case fraction > 0.2 || len(items) > 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
