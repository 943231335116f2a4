package arenav1

import (
	"context"

	"google.golang.org/grpc"
)

// ArenaClient is the client API for the Arena service.
type ArenaClient interface {
	CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error)
	MintDragon(ctx context.Context, in *MintDragonRequest, opts ...grpc.CallOption) (*MintDragonResponse, error)
	SelectDragon(ctx context.Context, in *SelectDragonRequest, opts ...grpc.CallOption) (*SelectDragonResponse, error)
	SelectCluster(ctx context.Context, in *SelectClusterRequest, opts ...grpc.CallOption) (*SelectClusterResponse, error)
	StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*StartBattleResponse, error)
	CommitActions(ctx context.Context, in *CommitActionsRequest, opts ...grpc.CallOption) (*CommitActionsResponse, error)
	RevealActions(ctx context.Context, in *RevealActionsRequest, opts ...grpc.CallOption) (*RevealActionsResponse, error)
	LevelUp(ctx context.Context, in *LevelUpRequest, opts ...grpc.CallOption) (*LevelUpResponse, error)
	AwardExperience(ctx context.Context, in *AwardExperienceRequest, opts ...grpc.CallOption) (*AwardExperienceResponse, error)
	CreateCluster(ctx context.Context, in *CreateClusterRequest, opts ...grpc.CallOption) (*CreateClusterResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error)
	GetDragon(ctx context.Context, in *GetDragonRequest, opts ...grpc.CallOption) (*GetDragonResponse, error)
	GetCluster(ctx context.Context, in *GetClusterRequest, opts ...grpc.CallOption) (*GetClusterResponse, error)
	GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*GetBattleResponse, error)
}

type arenaClient struct {
	cc grpc.ClientConnInterface
}

// NewArenaClient returns a client whose calls use the JSON codec.
func NewArenaClient(cc grpc.ClientConnInterface) ArenaClient {
	return &arenaClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *arenaClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error) {
	return invoke[CreateAccountResponse](ctx, c.cc, "CreateAccount", in, opts)
}

func (c *arenaClient) MintDragon(ctx context.Context, in *MintDragonRequest, opts ...grpc.CallOption) (*MintDragonResponse, error) {
	return invoke[MintDragonResponse](ctx, c.cc, "MintDragon", in, opts)
}

func (c *arenaClient) SelectDragon(ctx context.Context, in *SelectDragonRequest, opts ...grpc.CallOption) (*SelectDragonResponse, error) {
	return invoke[SelectDragonResponse](ctx, c.cc, "SelectDragon", in, opts)
}

func (c *arenaClient) SelectCluster(ctx context.Context, in *SelectClusterRequest, opts ...grpc.CallOption) (*SelectClusterResponse, error) {
	return invoke[SelectClusterResponse](ctx, c.cc, "SelectCluster", in, opts)
}

func (c *arenaClient) StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*StartBattleResponse, error) {
	return invoke[StartBattleResponse](ctx, c.cc, "StartBattle", in, opts)
}

func (c *arenaClient) CommitActions(ctx context.Context, in *CommitActionsRequest, opts ...grpc.CallOption) (*CommitActionsResponse, error) {
	return invoke[CommitActionsResponse](ctx, c.cc, "CommitActions", in, opts)
}

func (c *arenaClient) RevealActions(ctx context.Context, in *RevealActionsRequest, opts ...grpc.CallOption) (*RevealActionsResponse, error) {
	return invoke[RevealActionsResponse](ctx, c.cc, "RevealActions", in, opts)
}

func (c *arenaClient) LevelUp(ctx context.Context, in *LevelUpRequest, opts ...grpc.CallOption) (*LevelUpResponse, error) {
	return invoke[LevelUpResponse](ctx, c.cc, "LevelUp", in, opts)
}

func (c *arenaClient) AwardExperience(ctx context.Context, in *AwardExperienceRequest, opts ...grpc.CallOption) (*AwardExperienceResponse, error) {
	return invoke[AwardExperienceResponse](ctx, c.cc, "AwardExperience", in, opts)
}

func (c *arenaClient) CreateCluster(ctx context.Context, in *CreateClusterRequest, opts ...grpc.CallOption) (*CreateClusterResponse, error) {
	return invoke[CreateClusterResponse](ctx, c.cc, "CreateCluster", in, opts)
}

func (c *arenaClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error) {
	return invoke[GetAccountResponse](ctx, c.cc, "GetAccount", in, opts)
}

func (c *arenaClient) GetDragon(ctx context.Context, in *GetDragonRequest, opts ...grpc.CallOption) (*GetDragonResponse, error) {
	return invoke[GetDragonResponse](ctx, c.cc, "GetDragon", in, opts)
}

func (c *arenaClient) GetCluster(ctx context.Context, in *GetClusterRequest, opts ...grpc.CallOption) (*GetClusterResponse, error) {
	return invoke[GetClusterResponse](ctx, c.cc, "GetCluster", in, opts)
}

func (c *arenaClient) GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*GetBattleResponse, error) {
	return invoke[GetBattleResponse](ctx, c.cc, "GetBattle", in, opts)
}
