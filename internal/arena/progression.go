// Package arena implements the dragon game rules: progression, dragon selection,
// matchmaking, the commit-reveal battle state machine and the combat resolver.
//
// Everything here is deterministic. Randomness arrives as already drawn bytes and
// time as an explicit argument, so callers own both sources.
package arena

import (
	"fmt"
	"math"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
)

const (
	// ExpPerLevel scales the experience threshold of a level-up.
	ExpPerLevel = 1000
	// MaxLevel is the highest level a dragon can reach.
	MaxLevel = math.MaxUint8

	baseHP      = 10
	hpSpread    = 10
	baseStatVal = 1
)

// StarterSkill is the physical attack every minted dragon knows.
func StarterSkill() model.Skill {
	return model.Skill{
		Element:  model.Physical,
		Kind:     model.Attack,
		Power:    model.Ratio{Num: 1, Denom: 1},
		Cooldown: 0,
	}
}

// randomElement picks an elemental affinity. Only physical is in play for now.
func randomElement() model.Element {
	return model.Physical
}

// NewDragon builds a generation-0 dragon. hpRoll is the random byte for max HP.
func NewDragon(id uint64, owner string, hpRoll byte) model.Dragon {
	var c model.Constitution
	c.MaxHP = baseHP + uint32(hpRoll%hpSpread)
	for i := range c.Attack {
		c.Attack[i] = baseStatVal
		c.Defense[i] = baseStatVal
	}
	return model.Dragon{
		ID:           id,
		Owner:        owner,
		Generation:   0,
		Level:        0,
		Exp:          0,
		Element:      randomElement(),
		Skills:       []model.Skill{StarterSkill()},
		Constitution: c,
	}
}

// RollSkill derives a new skill from a single random byte. The same byte drives
// power, cooldown and kind.
func RollSkill(b byte) model.Skill {
	return model.Skill{
		Element:  randomElement(),
		Kind:     rollKind(b),
		Power:    rollPower(b),
		Cooldown: rollCooldown(b),
	}
}

func rollPower(b byte) model.Ratio {
	switch {
	case b <= 99:
		return model.Ratio{Num: 1, Denom: 1}
	case b <= 174:
		return model.Ratio{Num: 5, Denom: 4}
	case b <= 224:
		return model.Ratio{Num: 3, Denom: 2}
	case b <= 250:
		return model.Ratio{Num: 2, Denom: 1}
	default:
		return model.Ratio{Num: 5, Denom: 1}
	}
}

func rollCooldown(b byte) uint32 {
	switch {
	case b <= 99:
		return 3
	case b <= 200:
		return 2
	default:
		return 1
	}
}

func rollKind(b byte) model.SkillKind {
	if b%2 == 0 {
		return model.Attack
	}
	return model.Buff
}

// LevelThreshold is the experience needed to leave the given level.
func LevelThreshold(level uint8) uint32 {
	return (uint32(level) + 1) * ExpPerLevel
}

// LevelUp spends experience to gain a level and learn a skill rolled from b.
func LevelUp(d *model.Dragon, b byte) error {
	if d.Level == MaxLevel {
		return fmt.Errorf("dragon %d at max level: %w", d.ID, errs.ErrInsufficientProgress)
	}
	need := LevelThreshold(d.Level)
	if d.Exp < need {
		return fmt.Errorf("dragon %d has %d/%d exp: %w", d.ID, d.Exp, need, errs.ErrInsufficientProgress)
	}
	d.Exp -= need
	d.Level++
	d.Skills = append(d.Skills, RollSkill(b))
	return nil
}

// AwardExperience adds experience, saturating at the uint32 limit.
func AwardExperience(d *model.Dragon, amount uint32) {
	if d.Exp > math.MaxUint32-amount {
		d.Exp = math.MaxUint32
		return
	}
	d.Exp += amount
}

// ApplySkill performs one skill of an actor whose learned skills are given.
// Attacks lower the opponent's HP by max(1, scaled attack - defense), never below zero.
// Buffs scale the actor's own defense on the skill's element.
func ApplySkill(skills []model.Skill, actor, opponent *model.Constitution, skillID byte) error {
	if int(skillID) >= len(skills) {
		return fmt.Errorf("skill %d of %d: %w", skillID, len(skills), errs.ErrNotFound)
	}
	skill := skills[skillID]
	e := int(skill.Element)
	if e >= model.ElementCount {
		return fmt.Errorf("skill %d element %d: %w", skillID, e, errs.ErrInvalidArgument)
	}

	switch skill.Kind {
	case model.Attack:
		attack := skill.Power.Scale(actor.Attack[e])
		damage := uint32(1)
		if attack > opponent.Defense[e] {
			damage = attack - opponent.Defense[e]
		}
		opponent.MaxHP -= min(damage, opponent.MaxHP)
	case model.Buff:
		actor.Defense[e] = skill.Power.Scale(actor.Defense[e])
	default:
		return fmt.Errorf("skill %d kind %d: %w", skillID, skill.Kind, errs.ErrInvalidArgument)
	}
	return nil
}
