package flow

import "math/rand"

var correctMessages = []string{
	"You know your love so well!",
	"That's the one! You two are meant to be.",
	"Perfect answer, you're on fire!",
	"You really pay attention to the little things.",
	"Nailed it! Your love story is strong.",
	"Heart and soul, you just know!",
}

var incorrectMessages = []string{
	"Almost! Love is about learning too.",
	"Not quite, but your heart is in the right place.",
	"Oops! But hey, now you know.",
	"So close! Every day is a chance to learn more.",
	"That's okay -- there's always more to discover together.",
}

var streakMessages = []string{
	"",
	"",
	"2 in a row!",
	"3-streak! You really know your love!",
	"4 in a row! Unstoppable!",
	"5-streak! Soulmate-level knowledge!",
	"6+ streak! Legendary lovers!",
}

// pickMessage chooses a random message, avoiding an immediate repeat of the
// previously shown one.
func pickMessage(rng *rand.Rand, messages []string, exclude string) string {
	filtered := messages[:0:0]
	for _, m := range messages {
		if m != exclude {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return exclude
	}
	return filtered[rng.Intn(len(filtered))]
}

// StreakLabel returns the celebration line for a run of consecutive correct
// answers; empty below two in a row.
func StreakLabel(streak int) string {
	if streak < 0 {
		return ""
	}
	if streak >= len(streakMessages) {
		return streakMessages[len(streakMessages)-1]
	}
	return streakMessages[streak]
}
