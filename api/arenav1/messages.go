package arenav1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Account is the caller's account.
type Account struct {
	Identity        string                 `json:"identity"`
	ClusterId       uint64                 `json:"clusterId"`
	DragonId        *uint64                `json:"dragonId,omitempty"`
	DragonChangedAt *timestamppb.Timestamp `json:"dragonChangedAt,omitempty"`
}

func (x *Account) GetIdentity() string {
	if x != nil {
		return x.Identity
	}
	return ""
}

func (x *Account) GetClusterId() uint64 {
	if x != nil {
		return x.ClusterId
	}
	return 0
}

// Skill is one learned action. Its position in Dragon.Skills is the action byte.
type Skill struct {
	Element    string `json:"element"`
	Kind       string `json:"kind"`
	PowerNum   uint32 `json:"powerNum"`
	PowerDenom uint32 `json:"powerDenom"`
	Cooldown   uint32 `json:"cooldown"`
}

// Constitution carries combat stats; attack and defense are indexed by element.
type Constitution struct {
	MaxHp   uint32   `json:"maxHp"`
	Attack  []uint32 `json:"attack"`
	Defense []uint32 `json:"defense"`
}

func (x *Constitution) GetMaxHp() uint32 {
	if x != nil {
		return x.MaxHp
	}
	return 0
}

// Dragon is a stored dragon.
type Dragon struct {
	Id           uint64        `json:"id"`
	Owner        string        `json:"owner"`
	Generation   uint32        `json:"generation"`
	Level        uint32        `json:"level"`
	Exp          uint32        `json:"exp"`
	Element      string        `json:"element"`
	Skills       []*Skill      `json:"skills"`
	Constitution *Constitution `json:"constitution"`
}

func (x *Dragon) GetId() uint64 {
	if x != nil {
		return x.Id
	}
	return 0
}

func (x *Dragon) GetLevel() uint32 {
	if x != nil {
		return x.Level
	}
	return 0
}

func (x *Dragon) GetExp() uint32 {
	if x != nil {
		return x.Exp
	}
	return 0
}

func (x *Dragon) GetSkills() []*Skill {
	if x != nil {
		return x.Skills
	}
	return nil
}

func (x *Dragon) GetConstitution() *Constitution {
	if x != nil {
		return x.Constitution
	}
	return nil
}

// Cluster is a matchmaking cluster.
type Cluster struct {
	Id       uint64  `json:"id"`
	MaxLevel uint32  `json:"maxLevel"`
	Waiting  *uint64 `json:"waiting,omitempty"`
}

func (x *Cluster) GetWaiting() *uint64 {
	if x != nil {
		return x.Waiting
	}
	return nil
}

// Battle is a battle record. Actions are only meaningful when the side revealed.
type Battle struct {
	Id          string                 `json:"id"`
	DragonA     uint64                 `json:"dragonA"`
	DragonB     uint64                 `json:"dragonB"`
	CreatedAt   *timestamppb.Timestamp `json:"createdAt,omitempty"`
	CommitmentA []byte                 `json:"commitmentA,omitempty"`
	CommitmentB []byte                 `json:"commitmentB,omitempty"`
	RevealedA   bool                   `json:"revealedA"`
	RevealedB   bool                   `json:"revealedB"`
	ActionsA    []byte                 `json:"actionsA,omitempty"`
	ActionsB    []byte                 `json:"actionsB,omitempty"`
	State       string                 `json:"state"`
	ResolvedAt  *timestamppb.Timestamp `json:"resolvedAt,omitempty"`
}

func (x *Battle) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Battle) GetState() string {
	if x != nil {
		return x.State
	}
	return ""
}

type CreateAccountRequest struct{}

type CreateAccountResponse struct{}

type MintDragonRequest struct {
	Owner string `json:"owner"`
}

func (x *MintDragonRequest) GetOwner() string {
	if x != nil {
		return x.Owner
	}
	return ""
}

type MintDragonResponse struct {
	DragonId uint64 `json:"dragonId"`
}

func (x *MintDragonResponse) GetDragonId() uint64 {
	if x != nil {
		return x.DragonId
	}
	return 0
}

// SelectDragonRequest selects DragonId, or clears the selection when it is unset.
type SelectDragonRequest struct {
	DragonId *uint64 `json:"dragonId,omitempty"`
}

func (x *SelectDragonRequest) GetDragonId() *uint64 {
	if x != nil {
		return x.DragonId
	}
	return nil
}

type SelectDragonResponse struct{}

type SelectClusterRequest struct {
	ClusterId uint64 `json:"clusterId"`
}

func (x *SelectClusterRequest) GetClusterId() uint64 {
	if x != nil {
		return x.ClusterId
	}
	return 0
}

type SelectClusterResponse struct{}

type StartBattleRequest struct{}

type StartBattleResponse struct {
	Paired   bool   `json:"paired"`
	BattleId string `json:"battleId,omitempty"`
}

func (x *StartBattleResponse) GetPaired() bool {
	if x != nil {
		return x.Paired
	}
	return false
}

func (x *StartBattleResponse) GetBattleId() string {
	if x != nil {
		return x.BattleId
	}
	return ""
}

type CommitActionsRequest struct {
	BattleId   string `json:"battleId"`
	Commitment []byte `json:"commitment"`
}

func (x *CommitActionsRequest) GetBattleId() string {
	if x != nil {
		return x.BattleId
	}
	return ""
}

func (x *CommitActionsRequest) GetCommitment() []byte {
	if x != nil {
		return x.Commitment
	}
	return nil
}

type CommitActionsResponse struct{}

type RevealActionsRequest struct {
	BattleId string `json:"battleId"`
	Actions  []byte `json:"actions"`
}

func (x *RevealActionsRequest) GetBattleId() string {
	if x != nil {
		return x.BattleId
	}
	return ""
}

func (x *RevealActionsRequest) GetActions() []byte {
	if x != nil {
		return x.Actions
	}
	return nil
}

type RevealActionsResponse struct {
	Battle *Battle `json:"battle"`
}

func (x *RevealActionsResponse) GetBattle() *Battle {
	if x != nil {
		return x.Battle
	}
	return nil
}

type LevelUpRequest struct {
	DragonId uint64 `json:"dragonId"`
}

func (x *LevelUpRequest) GetDragonId() uint64 {
	if x != nil {
		return x.DragonId
	}
	return 0
}

type LevelUpResponse struct {
	Dragon *Dragon `json:"dragon"`
}

func (x *LevelUpResponse) GetDragon() *Dragon {
	if x != nil {
		return x.Dragon
	}
	return nil
}

type AwardExperienceRequest struct {
	DragonId uint64 `json:"dragonId"`
	Amount   uint32 `json:"amount"`
}

func (x *AwardExperienceRequest) GetDragonId() uint64 {
	if x != nil {
		return x.DragonId
	}
	return 0
}

func (x *AwardExperienceRequest) GetAmount() uint32 {
	if x != nil {
		return x.Amount
	}
	return 0
}

type AwardExperienceResponse struct {
	Dragon *Dragon `json:"dragon"`
}

func (x *AwardExperienceResponse) GetDragon() *Dragon {
	if x != nil {
		return x.Dragon
	}
	return nil
}

type CreateClusterRequest struct {
	ClusterId uint64 `json:"clusterId"`
	MaxLevel  uint32 `json:"maxLevel"`
}

func (x *CreateClusterRequest) GetClusterId() uint64 {
	if x != nil {
		return x.ClusterId
	}
	return 0
}

func (x *CreateClusterRequest) GetMaxLevel() uint32 {
	if x != nil {
		return x.MaxLevel
	}
	return 0
}

type CreateClusterResponse struct{}

type GetAccountRequest struct{}

type GetAccountResponse struct {
	Account *Account `json:"account"`
}

func (x *GetAccountResponse) GetAccount() *Account {
	if x != nil {
		return x.Account
	}
	return nil
}

type GetDragonRequest struct {
	DragonId uint64 `json:"dragonId"`
}

func (x *GetDragonRequest) GetDragonId() uint64 {
	if x != nil {
		return x.DragonId
	}
	return 0
}

type GetDragonResponse struct {
	Dragon *Dragon `json:"dragon"`
}

func (x *GetDragonResponse) GetDragon() *Dragon {
	if x != nil {
		return x.Dragon
	}
	return nil
}

type GetClusterRequest struct {
	ClusterId uint64 `json:"clusterId"`
}

func (x *GetClusterRequest) GetClusterId() uint64 {
	if x != nil {
		return x.ClusterId
	}
	return 0
}

type GetClusterResponse struct {
	Cluster *Cluster `json:"cluster"`
}

func (x *GetClusterResponse) GetCluster() *Cluster {
	if x != nil {
		return x.Cluster
	}
	return nil
}

type GetBattleRequest struct {
	BattleId string `json:"battleId"`
}

func (x *GetBattleRequest) GetBattleId() string {
	if x != nil {
		return x.BattleId
	}
	return ""
}

type GetBattleResponse struct {
	Battle *Battle `json:"battle"`
}

func (x *GetBattleResponse) GetBattle() *Battle {
	if x != nil {
		return x.Battle
	}
	return nil
}
