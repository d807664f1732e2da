package votes

import (
	"sort"
	"strconv"
)

// Summary aggregates the revealed votes of one round. Average covers only
// votes that parse as numbers; sentinel cards ("?", coffee break) still
// count toward the distribution and can win the majority.
type Summary struct {
	Average      *float64       `json:"average"`
	Majority     *string        `json:"majority"`
	Distribution map[string]int `json:"distribution"`
	Total        int            `json:"total"`
}

// Summarize computes mean and majority over the cast votes. Majority is the
// mode; on a tie the smaller card wins (numeric comparison when both sides
// parse, lexical otherwise) so the result is deterministic.
func Summarize(cast []string) Summary {
	s := Summary{Distribution: make(map[string]int)}

	var sum float64
	var numeric int
	for _, v := range cast {
		if v == "" {
			continue
		}
		s.Distribution[v]++
		s.Total++
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			sum += f
			numeric++
		}
	}

	if numeric > 0 {
		avg := sum / float64(numeric)
		s.Average = &avg
	}

	if s.Total == 0 {
		return s
	}

	cards := make([]string, 0, len(s.Distribution))
	for card := range s.Distribution {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool { return cardLess(cards[i], cards[j]) })

	best := cards[0]
	for _, card := range cards[1:] {
		if s.Distribution[card] > s.Distribution[best] {
			best = card
		}
	}
	s.Majority = &best

	return s
}

func cardLess(a, b string) bool {
	fa, ea := strconv.ParseFloat(a, 64)
	fb, eb := strconv.ParseFloat(b, 64)
	switch {
	case ea == nil && eb == nil:
		return fa < fb
	case ea == nil:
		// numeric cards sort before sentinels
		return true
	case eb == nil:
		return false
	default:
		return a < b
	}
}
