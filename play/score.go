package play

// Multipliers are kept in percent so points are exact.
const (
	comboStepPercent = 5
	maxMultiplier    = 200
)

var basePoints = map[Timing]int{
	Perfect: 100,
	Good:    75,
	Early:   50,
	Late:    50,
	Miss:    0,
}

// MultiplierPercent is the score multiplier for a combo, in percent:
// 100 + 5 per combo, capped at 200.
func MultiplierPercent(combo int) int {
	if combo < 0 {
		combo = 0
	}
	m := 100 + comboStepPercent*combo
	if m > maxMultiplier {
		m = maxMultiplier
	}
	return m
}

func Multiplier(combo int) float64 { return float64(MultiplierPercent(combo)) / 100 }

// Points returns the points for a hit of timing t with combo being the
// combo before the hit.
func Points(t Timing, combo int) int {
	return basePoints[t] * MultiplierPercent(combo) / 100
}

// ComboTier is a multiplier bracket shown to the player.
type ComboTier struct {
	MinCombo   int
	Name       string
	Multiplier float64 // at MinCombo
}

var comboTiers = []ComboTier{
	{0, "", Multiplier(0)},
	{5, "groove", Multiplier(5)},
	{10, "on fire", Multiplier(10)},
	{20, "max", Multiplier(20)},
}

// Tier returns the bracket combo falls in.
func Tier(combo int) ComboTier {
	tier := comboTiers[0]
	for _, t := range comboTiers {
		if combo >= t.MinCombo {
			tier = t
		}
	}
	return tier
}

func ComboTiers() []ComboTier {
	out := make([]ComboTier, len(comboTiers))
	copy(out, comboTiers)
	return out
}
