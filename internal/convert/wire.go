// Package convert maps domain models to arena.v1 wire messages.
package convert

import (
	"bytes"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	arenav1 "github.com/and161185/dragon-arena/api/arenav1"
	"github.com/and161185/dragon-arena/internal/model"
)

// --- helpers ---

func ts(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func u64(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// --- Account ---

// ToWireAccount converts an account.
func ToWireAccount(a *model.Account) *arenav1.Account {
	if a == nil {
		return nil
	}
	return &arenav1.Account{
		Identity:        a.Identity,
		ClusterId:       a.ClusterID,
		DragonId:        u64(a.DragonID),
		DragonChangedAt: ts(a.DragonChange),
	}
}

// --- Dragon ---

// ToWireSkill converts a skill; element and kind travel by name.
func ToWireSkill(s model.Skill) *arenav1.Skill {
	return &arenav1.Skill{
		Element:    s.Element.String(),
		Kind:       s.Kind.String(),
		PowerNum:   s.Power.Num,
		PowerDenom: s.Power.Denom,
		Cooldown:   s.Cooldown,
	}
}

// ToWireConstitution converts combat stats.
func ToWireConstitution(c model.Constitution) *arenav1.Constitution {
	return &arenav1.Constitution{
		MaxHp:   c.MaxHP,
		Attack:  append([]uint32(nil), c.Attack[:]...),
		Defense: append([]uint32(nil), c.Defense[:]...),
	}
}

// ToWireDragon converts a dragon.
func ToWireDragon(d *model.Dragon) *arenav1.Dragon {
	if d == nil {
		return nil
	}
	skills := make([]*arenav1.Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, ToWireSkill(s))
	}
	return &arenav1.Dragon{
		Id:           d.ID,
		Owner:        d.Owner,
		Generation:   uint32(d.Generation),
		Level:        uint32(d.Level),
		Exp:          d.Exp,
		Element:      d.Element.String(),
		Skills:       skills,
		Constitution: ToWireConstitution(d.Constitution),
	}
}

// --- Cluster ---

// ToWireCluster converts a cluster.
func ToWireCluster(c *model.Cluster) *arenav1.Cluster {
	if c == nil {
		return nil
	}
	return &arenav1.Cluster{Id: c.ID, MaxLevel: uint32(c.MaxLevel), Waiting: u64(c.Waiting)}
}

// --- Battle ---

// ToWireBattle converts a battle and names its current state.
func ToWireBattle(b *model.Battle) *arenav1.Battle {
	if b == nil {
		return nil
	}
	out := &arenav1.Battle{
		Id:          b.ID,
		DragonA:     b.DragonA,
		DragonB:     b.DragonB,
		CreatedAt:   ts(b.CreatedAt),
		CommitmentA: bytes.Clone(b.HashA),
		CommitmentB: bytes.Clone(b.HashB),
		RevealedA:   b.ActionsA != nil,
		RevealedB:   b.ActionsB != nil,
		ActionsA:    bytes.Clone(b.ActionsA),
		ActionsB:    bytes.Clone(b.ActionsB),
		State:       string(b.State()),
	}
	if b.Resolved {
		out.ResolvedAt = ts(b.ResolvedAt)
	}
	return out
}
