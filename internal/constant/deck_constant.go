package constant

// Card deck offered to presentation layers. The protocol itself accepts any
// string vote; this palette is advisory only and served via the deck
// endpoint so every client renders the same cards.
var Deck = []string{"0", "1", "2", "3", "5", "8", "13", "20", "40", "100", CardUnknown, CardBreak}

const (
	// CardUnknown is the "no idea" sentinel.
	CardUnknown = "?"
	// CardBreak asks for a pause.
	CardBreak = "coffee"
)

// HeartbeatIntervalSeconds is how often an attached client reports presence.
const HeartbeatIntervalSeconds = 30
