package emotion

// Categories is the fixed go_emotions label set. Ordering matters: when
// two categories score identically the earlier one wins as dominant.
var Categories = []string{
	"admiration",
	"amusement",
	"anger",
	"annoyance",
	"approval",
	"caring",
	"confusion",
	"curiosity",
	"desire",
	"disappointment",
	"disapproval",
	"disgust",
	"embarrassment",
	"excitement",
	"fear",
	"gratitude",
	"grief",
	"joy",
	"love",
	"nervousness",
	"optimism",
	"pride",
	"realization",
	"relief",
	"remorse",
	"sadness",
	"surprise",
	"neutral",
}

// DominantNeutral is the dominant category reported for empty or
// unanalyzable input.
const DominantNeutral = "neutral"

var positiveCategories = map[string]struct{}{
	"admiration": {}, "amusement": {}, "approval": {}, "caring": {},
	"desire": {}, "excitement": {}, "gratitude": {}, "joy": {},
	"love": {}, "optimism": {}, "pride": {}, "relief": {},
}

var negativeCategories = map[string]struct{}{
	"anger": {}, "annoyance": {}, "disappointment": {}, "disapproval": {},
	"disgust": {}, "embarrassment": {}, "fear": {}, "grief": {},
	"nervousness": {}, "remorse": {}, "sadness": {},
}
