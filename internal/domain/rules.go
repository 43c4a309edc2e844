package domain

// Rule is a named combination of dominant sets. It fires when every factor
// in When is present in an assessment with the listed dominant set. Rules
// describe the assessment; they never change its score or level.
type Rule struct {
	Description string
	Level       Level
	When        map[Factor]Level
}

// DefaultRuleDescription is reported when no rule fires.
const DefaultRuleDescription = "Default weighted calculation based on parameter dominance"

var defaultRules = []Rule{
	{"High speed with high wind speed", LevelHigh, map[Factor]Level{Speed: LevelHigh, WindSpeed: LevelHigh}},
	{"Low visibility with high wind speed", LevelHigh, map[Factor]Level{Visibility: LevelLow, WindSpeed: LevelHigh}},
	{"High acceleration with high speed", LevelHigh, map[Factor]Level{Acceleration: LevelHigh, Speed: LevelHigh}},
	{"Medium speed with medium wind speed", LevelMedium, map[Factor]Level{Speed: LevelMedium, WindSpeed: LevelMedium}},
	{"High temperature with high humidity", LevelMedium, map[Factor]Level{Temperature: LevelHigh, Humidity: LevelHigh}},
	{"Medium visibility conditions", LevelMedium, map[Factor]Level{Visibility: LevelMedium}},
	{"Low speed with low wind speed", LevelLow, map[Factor]Level{Speed: LevelLow, WindSpeed: LevelLow}},
	{"High visibility with optimal temperature", LevelLow, map[Factor]Level{Visibility: LevelHigh, Temperature: LevelMedium}},
}

// DefaultRules returns a copy of the built-in rule table, riskiest first.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Matches reports whether every condition of r holds in a.
func (r Rule) Matches(a Assessment) bool {
	if len(r.When) == 0 {
		return false
	}
	for f, want := range r.When {
		got, ok := a.Factor(f)
		if !ok || got.Dominant != want {
			return false
		}
	}
	return true
}

// AppliedRules lists the descriptions of the default rules that fire for a,
// in table order, or DefaultRuleDescription when none does.
func AppliedRules(a Assessment) []string {
	return ApplyRules(defaultRules, a)
}

// ApplyRules is AppliedRules over a caller-supplied table.
func ApplyRules(rules []Rule, a Assessment) []string {
	var out []string
	for _, r := range rules {
		if r.Matches(a) {
			out = append(out, r.Description)
		}
	}
	if len(out) == 0 {
		return []string{DefaultRuleDescription}
	}
	return out
}
