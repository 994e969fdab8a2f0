package grading

import "math"

// SkillsPerBelt is the number of completed techniques that earns one belt.
const SkillsPerBelt = 5

// MasteryTrack is shown as the next belt once the final belt is reached.
// It is not a belt in Belts.
const MasteryTrack = "Mastery Track"

// Belts defines the belt progression order, lowest first.
var Belts = []string{
	"White Belt",
	"Yellow Belt",
	"Orange Belt",
	"Green Belt",
	"Blue Belt",
	"Purple Belt",
	"Brown Belt",
	"Red Belt",
	"Black Belt",
}

// BeltStanding is a child's rank derived from their completed technique count.
// It is never stored.
type BeltStanding struct {
	CompletedSkills int
	BeltIndex       int
	CurrentBelt     string
	NextBelt        string
	ProgressCount   int // completed skills within the current belt cycle
	ProgressPercent int
	SkillsNeeded    int // skills still required for NextBelt
	AtFinalBelt     bool
}

// Standing derives the belt standing for a completed-skill count.
// PRE: none (negative counts are treated as zero)
// POST: BeltIndex = min(completed/SkillsPerBelt, len(Belts)-1); at the final belt
// NextBelt is MasteryTrack, ProgressPercent is 100 and SkillsNeeded is 0
func Standing(completed int) BeltStanding {
	if completed < 0 {
		completed = 0
	}
	last := len(Belts) - 1
	index := min(completed/SkillsPerBelt, last)

	s := BeltStanding{
		CompletedSkills: completed,
		BeltIndex:       index,
		CurrentBelt:     Belts[index],
	}
	if index == last {
		s.NextBelt = MasteryTrack
		s.ProgressPercent = 100
		s.AtFinalBelt = true
		return s
	}

	cycle := completed % SkillsPerBelt
	s.NextBelt = Belts[index+1]
	s.ProgressCount = cycle
	s.ProgressPercent = int(math.Round(float64(cycle) * 100 / SkillsPerBelt))
	s.SkillsNeeded = SkillsPerBelt - cycle
	return s
}
