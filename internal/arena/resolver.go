package arena

import (
	"fmt"

	"github.com/and161185/dragon-arena/internal/model"
)

// Fighter is one side of a battle as seen by the resolver.
type Fighter struct {
	Skills       []model.Skill
	Constitution model.Constitution
	Actions      []byte
}

// Outcome holds the resulting constitutions and how many rounds were fought.
type Outcome struct {
	A      model.Constitution
	B      model.Constitution
	Rounds int
}

var noop = []byte{0}

// Resolve runs the combat. Each side cycles through its own actions (an unrevealed
// side uses skill 0). Per round A acts on B, then B acts on A. The fight lasts at most
// max(len(actions A), len(actions B)) rounds and stops as soon as either HP hits zero.
func Resolve(a, b Fighter) (Outcome, error) {
	actsA, actsB := a.Actions, b.Actions
	if len(actsA) == 0 {
		actsA = noop
	}
	if len(actsB) == 0 {
		actsB = noop
	}

	ca, cb := a.Constitution, b.Constitution
	rounds := max(len(actsA), len(actsB))
	fought := 0
	for i := 0; i < rounds && alive(ca, cb); i++ {
		fought++
		if err := ApplySkill(a.Skills, &ca, &cb, actsA[i%len(actsA)]); err != nil {
			return Outcome{}, fmt.Errorf("round %d side A: %w", i, err)
		}
		if !alive(ca, cb) {
			break
		}
		if err := ApplySkill(b.Skills, &cb, &ca, actsB[i%len(actsB)]); err != nil {
			return Outcome{}, fmt.Errorf("round %d side B: %w", i, err)
		}
	}
	return Outcome{A: ca, B: cb, Rounds: fought}, nil
}

func alive(a, b model.Constitution) bool {
	return a.MaxHP > 0 && b.MaxHP > 0
}
