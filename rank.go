package main

// Rank titles awarded from lifetime stats. Thresholds are checked in
// order; the last one met wins.
type rankDef struct {
	Name     string
	MinScore int
	MinKills int
}

var ranks = []rankDef{
	{"Cadet", 0, 0},
	{"Gunner", 500, 25},
	{"Sergeant", 2000, 150},
	{"Lieutenant", 5000, 500},
	{"Captain", 12000, 1500},
	{"Commander", 30000, 4000},
	{"Defender of Earth", 80000, 10000},
}

// RankFor returns the rank title earned by the given lifetime stats.
// Both the score and kill thresholds must be met.
func RankFor(stats *StatsRow) string {
	name := ranks[0].Name
	if stats == nil {
		return name
	}
	for _, r := range ranks {
		if stats.BestScore >= r.MinScore && stats.TotalKills >= r.MinKills {
			name = r.Name
		}
	}
	return name
}
