// Package model defines domain entities used by services and repositories.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Element is an elemental channel; its value indexes Constitution.Attack/Defense.
type Element uint8

const (
	Physical Element = iota
	Fire
	Water
	Air
	Earth
)

// ElementCount is the size of the attack/defense arrays.
const ElementCount = 5

func (e Element) String() string {
	switch e {
	case Physical:
		return "physical"
	case Fire:
		return "fire"
	case Water:
		return "water"
	case Air:
		return "air"
	case Earth:
		return "earth"
	default:
		return "element(" + strconv.Itoa(int(e)) + ")"
	}
}

// SkillKind tells whether a skill damages the opponent or buffs the actor.
type SkillKind uint8

const (
	Attack SkillKind = iota
	Buff
)

func (k SkillKind) String() string {
	if k == Buff {
		return "buff"
	}
	return "attack"
}

// Ratio is an unreduced integer multiplier. It is never converted to floating point.
type Ratio struct {
	Num   uint32
	Denom uint32
}

// Scale returns v*Num/Denom with truncating integer division, saturating at the uint32 limit.
func (r Ratio) Scale(v uint32) uint32 {
	if r.Denom == 0 {
		return v
	}
	res := uint64(v) * uint64(r.Num) / uint64(r.Denom)
	if res > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(res)
}

// Skill is a learned action; its index in Dragon.Skills is the in-battle skill id.
type Skill struct {
	Element  Element
	Kind     SkillKind
	Power    Ratio
	Cooldown uint32 // stored, never enforced
}

// Constitution holds combat stats.
type Constitution struct {
	MaxHP   uint32
	Attack  [ElementCount]uint32
	Defense [ElementCount]uint32
}

// Dragon is a persistent creature owned by an account identity.
type Dragon struct {
	ID           uint64
	Owner        string
	Generation   uint8
	Level        uint8
	Exp          uint32
	Element      Element
	Skills       []Skill
	Constitution Constitution
}

// Account is the per-identity record.
type Account struct {
	Identity     string
	ClusterID    uint64
	DragonID     *uint64   // currently selected dragon, nil if none
	DragonChange time.Time // last selection change, Unix epoch for new accounts
}

// Cluster is a matchmaking bucket with a depth-1 waiting slot.
type Cluster struct {
	ID       uint64
	MaxLevel uint8
	Waiting  *uint64
}

// Battle is a two-party commit-reveal encounter.
type Battle struct {
	ID         string
	CreatedAt  time.Time
	DragonA    uint64
	DragonB    uint64
	HashA      []byte // commitment, nil until committed
	HashB      []byte
	ActionsA   []byte // revealed skill indices, nil until revealed
	ActionsB   []byte
	Resolved   bool
	ResolvedAt time.Time
}

// BattleState is the externally visible phase of a battle.
type BattleState string

const (
	BattleCreated    BattleState = "created"
	BattleCommitting BattleState = "committing"
	BattleRevealing  BattleState = "revealing"
	BattleResolved   BattleState = "resolved"
)

// State derives the battle phase from the stored fields.
func (b *Battle) State() BattleState {
	switch {
	case b.Resolved:
		return BattleResolved
	case b.ActionsA != nil || b.ActionsB != nil:
		return BattleRevealing
	case b.HashA != nil || b.HashB != nil:
		return BattleCommitting
	default:
		return BattleCreated
	}
}

// BattleID formats the composite battle key "<idA>:<idB>".
func BattleID(a, b uint64) string {
	return strconv.FormatUint(a, 10) + ":" + strconv.FormatUint(b, 10)
}

// ParseBattleID splits a battle key into its two dragon ids.
func ParseBattleID(id string) (uint64, uint64, error) {
	left, right, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("battle id %q: missing separator", id)
	}
	a, err := strconv.ParseUint(left, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("battle id %q: %w", id, err)
	}
	b, err := strconv.ParseUint(right, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("battle id %q: %w", id, err)
	}
	return a, b, nil
}
