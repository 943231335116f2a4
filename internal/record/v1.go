package record

import (
	"time"

	"github.com/and161185/dragon-arena/internal/model"
)

// Version 1 payloads. Timestamps are microseconds since the Unix epoch.

type accountV1 struct {
	ClusterID      uint64  `json:"clusterId"`
	DragonID       *uint64 `json:"dragonId,omitempty"`
	DragonChangeUs int64   `json:"dragonChangeUs"`
}

type skillV1 struct {
	Element  uint8  `json:"element"`
	Kind     uint8  `json:"kind"`
	Num      uint32 `json:"num"`
	Denom    uint32 `json:"denom"`
	Cooldown uint32 `json:"cooldown"`
}

type constitutionV1 struct {
	MaxHP   uint32    `json:"maxHp"`
	Attack  [5]uint32 `json:"attack"`
	Defense [5]uint32 `json:"defense"`
}

type dragonV1 struct {
	Owner        string         `json:"owner"`
	Generation   uint8          `json:"generation"`
	Level        uint8          `json:"level"`
	Exp          uint32         `json:"exp"`
	Element      uint8          `json:"element"`
	Skills       []skillV1      `json:"skills"`
	Constitution constitutionV1 `json:"constitution"`
}

type clusterV1 struct {
	MaxLevel uint8   `json:"maxLevel"`
	Waiting  *uint64 `json:"waiting,omitempty"`
}

type battleV1 struct {
	CreatedUs  int64  `json:"createdUs"`
	DragonA    uint64 `json:"dragonA"`
	DragonB    uint64 `json:"dragonB"`
	HashA      []byte `json:"hashA,omitempty"`
	HashB      []byte `json:"hashB,omitempty"`
	RevealedA  bool   `json:"revealedA"`
	RevealedB  bool   `json:"revealedB"`
	ActionsA   []byte `json:"actionsA,omitempty"`
	ActionsB   []byte `json:"actionsB,omitempty"`
	Resolved   bool   `json:"resolved"`
	ResolvedUs int64  `json:"resolvedUs,omitempty"`
}

type counterV1 struct {
	Next uint64 `json:"next"`
}

func micros(t time.Time) int64 { return t.UnixMicro() }

func fromMicros(us int64) time.Time { return time.UnixMicro(us).UTC() }

// EncodeAccount wraps an account in a current-version envelope.
func EncodeAccount(a model.Account) ([]byte, error) {
	return encode(accountV1{
		ClusterID:      a.ClusterID,
		DragonID:       a.DragonID,
		DragonChangeUs: micros(a.DragonChange),
	})
}

// DecodeAccount unwraps a stored account for identity.
func DecodeAccount(identity string, bz []byte) (model.Account, error) {
	r, err := decode[accountV1](KindAccount, bz)
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{
		Identity:     identity,
		ClusterID:    r.ClusterID,
		DragonID:     r.DragonID,
		DragonChange: fromMicros(r.DragonChangeUs),
	}, nil
}

// EncodeDragon wraps a dragon in a current-version envelope.
func EncodeDragon(d model.Dragon) ([]byte, error) {
	skills := make([]skillV1, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, skillV1{
			Element:  uint8(s.Element),
			Kind:     uint8(s.Kind),
			Num:      s.Power.Num,
			Denom:    s.Power.Denom,
			Cooldown: s.Cooldown,
		})
	}
	return encode(dragonV1{
		Owner:      d.Owner,
		Generation: d.Generation,
		Level:      d.Level,
		Exp:        d.Exp,
		Element:    uint8(d.Element),
		Skills:     skills,
		Constitution: constitutionV1{
			MaxHP:   d.Constitution.MaxHP,
			Attack:  d.Constitution.Attack,
			Defense: d.Constitution.Defense,
		},
	})
}

// DecodeDragon unwraps a stored dragon with the given id.
func DecodeDragon(id uint64, bz []byte) (model.Dragon, error) {
	r, err := decode[dragonV1](KindDragon, bz)
	if err != nil {
		return model.Dragon{}, err
	}
	skills := make([]model.Skill, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, model.Skill{
			Element:  model.Element(s.Element),
			Kind:     model.SkillKind(s.Kind),
			Power:    model.Ratio{Num: s.Num, Denom: s.Denom},
			Cooldown: s.Cooldown,
		})
	}
	return model.Dragon{
		ID:         id,
		Owner:      r.Owner,
		Generation: r.Generation,
		Level:      r.Level,
		Exp:        r.Exp,
		Element:    model.Element(r.Element),
		Skills:     skills,
		Constitution: model.Constitution{
			MaxHP:   r.Constitution.MaxHP,
			Attack:  r.Constitution.Attack,
			Defense: r.Constitution.Defense,
		},
	}, nil
}

// EncodeCluster wraps a cluster in a current-version envelope.
func EncodeCluster(c model.Cluster) ([]byte, error) {
	return encode(clusterV1{MaxLevel: c.MaxLevel, Waiting: c.Waiting})
}

// DecodeCluster unwraps a stored cluster with the given id.
func DecodeCluster(id uint64, bz []byte) (model.Cluster, error) {
	r, err := decode[clusterV1](KindCluster, bz)
	if err != nil {
		return model.Cluster{}, err
	}
	return model.Cluster{ID: id, MaxLevel: r.MaxLevel, Waiting: r.Waiting}, nil
}

// EncodeBattle wraps a battle in a current-version envelope.
func EncodeBattle(b model.Battle) ([]byte, error) {
	r := battleV1{
		CreatedUs: micros(b.CreatedAt),
		DragonA:   b.DragonA,
		DragonB:   b.DragonB,
		HashA:     b.HashA,
		HashB:     b.HashB,
		RevealedA: b.ActionsA != nil,
		RevealedB: b.ActionsB != nil,
		ActionsA:  b.ActionsA,
		ActionsB:  b.ActionsB,
		Resolved:  b.Resolved,
	}
	if b.Resolved {
		r.ResolvedUs = micros(b.ResolvedAt)
	}
	return encode(r)
}

// DecodeBattle unwraps a stored battle with the given id.
func DecodeBattle(id string, bz []byte) (model.Battle, error) {
	r, err := decode[battleV1](KindBattle, bz)
	if err != nil {
		return model.Battle{}, err
	}
	b := model.Battle{
		ID:        id,
		CreatedAt: fromMicros(r.CreatedUs),
		DragonA:   r.DragonA,
		DragonB:   r.DragonB,
		HashA:     r.HashA,
		HashB:     r.HashB,
		ActionsA:  revealed(r.RevealedA, r.ActionsA),
		ActionsB:  revealed(r.RevealedB, r.ActionsB),
		Resolved:  r.Resolved,
	}
	if r.Resolved {
		b.ResolvedAt = fromMicros(r.ResolvedUs)
	}
	return b, nil
}

func revealed(ok bool, actions []byte) []byte {
	if !ok {
		return nil
	}
	if actions == nil {
		return []byte{}
	}
	return actions
}

// EncodeCounter wraps the next value of a sequence.
func EncodeCounter(next uint64) ([]byte, error) {
	return encode(counterV1{Next: next})
}

// DecodeCounter unwraps a stored sequence value.
func DecodeCounter(bz []byte) (uint64, error) {
	r, err := decode[counterV1](KindCounter, bz)
	if err != nil {
		return 0, err
	}
	return r.Next, nil
}
