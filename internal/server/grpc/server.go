// Package grpcserver exposes the arena.v1.Arena gRPC API handlers.
package grpcserver

import (
	"context"
	"errors"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	arenav1 "github.com/and161185/dragon-arena/api/arenav1"
	"github.com/and161185/dragon-arena/internal/convert"
	"github.com/and161185/dragon-arena/internal/identity"
	"github.com/and161185/dragon-arena/internal/service"
)

// Server wires services into gRPC handlers.
type Server struct {
	arenav1.UnimplementedArenaServer
	accounts service.AccountService
	dragons  service.DragonService
	battles  service.BattleService
	signKey  []byte
}

// New constructs a gRPC server with injected services. signKey verifies bearer tokens.
func New(accounts service.AccountService, dragons service.DragonService, battles service.BattleService, signKey []byte) *Server {
	return &Server{accounts: accounts, dragons: dragons, battles: battles, signKey: signKey}
}

// --- Accounts ---

// CreateAccount registers the caller.
func (s *Server) CreateAccount(ctx context.Context, _ *arenav1.CreateAccountRequest) (*arenav1.CreateAccountResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.CreateAccount(ctx, caller); err != nil {
		return nil, toStatus("create account", err)
	}
	return &arenav1.CreateAccountResponse{}, nil
}

// SelectDragon selects or clears the caller's active dragon.
func (s *Server) SelectDragon(ctx context.Context, req *arenav1.SelectDragonRequest) (*arenav1.SelectDragonResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SelectDragon(ctx, caller, req.GetDragonId()); err != nil {
		return nil, toStatus("select dragon", err)
	}
	return &arenav1.SelectDragonResponse{}, nil
}

// SelectCluster moves the caller to a cluster.
func (s *Server) SelectCluster(ctx context.Context, req *arenav1.SelectClusterRequest) (*arenav1.SelectClusterResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SelectCluster(ctx, caller, req.GetClusterId()); err != nil {
		return nil, toStatus("select cluster", err)
	}
	return &arenav1.SelectClusterResponse{}, nil
}

// GetAccount returns the caller's account.
func (s *Server) GetAccount(ctx context.Context, _ *arenav1.GetAccountRequest) (*arenav1.GetAccountResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.GetAccount(ctx, caller)
	if err != nil {
		return nil, toStatus("get account", err)
	}
	return &arenav1.GetAccountResponse{Account: convert.ToWireAccount(acc)}, nil
}

// --- Dragons ---

// MintDragon creates a dragon for the requested owner. Privileged.
func (s *Server) MintDragon(ctx context.Context, req *arenav1.MintDragonRequest) (*arenav1.MintDragonResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetOwner() == "" {
		return nil, status.Error(codes.InvalidArgument, "empty owner")
	}
	id, err := s.dragons.Mint(ctx, caller, req.GetOwner())
	if err != nil {
		return nil, toStatus("mint", err)
	}
	return &arenav1.MintDragonResponse{DragonId: id}, nil
}

// LevelUp levels one of the caller's dragons.
func (s *Server) LevelUp(ctx context.Context, req *arenav1.LevelUpRequest) (*arenav1.LevelUpResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.dragons.LevelUp(ctx, caller, req.GetDragonId())
	if err != nil {
		return nil, toStatus("level up", err)
	}
	return &arenav1.LevelUpResponse{Dragon: convert.ToWireDragon(d)}, nil
}

// AwardExperience grants experience. Privileged.
func (s *Server) AwardExperience(ctx context.Context, req *arenav1.AwardExperienceRequest) (*arenav1.AwardExperienceResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.dragons.AwardExperience(ctx, caller, req.GetDragonId(), req.GetAmount())
	if err != nil {
		return nil, toStatus("award experience", err)
	}
	return &arenav1.AwardExperienceResponse{Dragon: convert.ToWireDragon(d)}, nil
}

// GetDragon returns any dragon by id.
func (s *Server) GetDragon(ctx context.Context, req *arenav1.GetDragonRequest) (*arenav1.GetDragonResponse, error) {
	if _, err := s.callerFromCtx(ctx); err != nil {
		return nil, err
	}
	d, err := s.dragons.GetDragon(ctx, req.GetDragonId())
	if err != nil {
		return nil, toStatus("get dragon", err)
	}
	return &arenav1.GetDragonResponse{Dragon: convert.ToWireDragon(d)}, nil
}

// --- Clusters & battles ---

// CreateCluster adds a cluster. Privileged.
func (s *Server) CreateCluster(ctx context.Context, req *arenav1.CreateClusterRequest) (*arenav1.CreateClusterResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetMaxLevel() > math.MaxUint8 {
		return nil, status.Errorf(codes.InvalidArgument, "max level %d > %d", req.GetMaxLevel(), math.MaxUint8)
	}
	if err := s.battles.CreateCluster(ctx, caller, req.GetClusterId(), uint8(req.GetMaxLevel())); err != nil {
		return nil, toStatus("create cluster", err)
	}
	return &arenav1.CreateClusterResponse{}, nil
}

// GetCluster returns a cluster by id.
func (s *Server) GetCluster(ctx context.Context, req *arenav1.GetClusterRequest) (*arenav1.GetClusterResponse, error) {
	if _, err := s.callerFromCtx(ctx); err != nil {
		return nil, err
	}
	c, err := s.battles.GetCluster(ctx, req.GetClusterId())
	if err != nil {
		return nil, toStatus("get cluster", err)
	}
	return &arenav1.GetClusterResponse{Cluster: convert.ToWireCluster(c)}, nil
}

// StartBattle queues the caller's dragon and reports a pairing.
func (s *Server) StartBattle(ctx context.Context, _ *arenav1.StartBattleRequest) (*arenav1.StartBattleResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	id, paired, err := s.battles.StartBattle(ctx, caller)
	if err != nil {
		return nil, toStatus("start battle", err)
	}
	return &arenav1.StartBattleResponse{Paired: paired, BattleId: id}, nil
}

// CommitActions stores the caller's commitment.
func (s *Server) CommitActions(ctx context.Context, req *arenav1.CommitActionsRequest) (*arenav1.CommitActionsResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.battles.CommitActions(ctx, caller, req.GetBattleId(), req.GetCommitment()); err != nil {
		return nil, toStatus("commit actions", err)
	}
	return &arenav1.CommitActionsResponse{}, nil
}

// RevealActions stores the caller's actions and returns the battle, resolved if complete.
func (s *Server) RevealActions(ctx context.Context, req *arenav1.RevealActionsRequest) (*arenav1.RevealActionsResponse, error) {
	caller, err := s.callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	actions := req.GetActions()
	if actions == nil {
		actions = []byte{}
	}
	b, err := s.battles.RevealActions(ctx, caller, req.GetBattleId(), actions)
	if err != nil {
		return nil, toStatus("reveal actions", err)
	}
	return &arenav1.RevealActionsResponse{Battle: convert.ToWireBattle(b)}, nil
}

// GetBattle returns a battle by id.
func (s *Server) GetBattle(ctx context.Context, req *arenav1.GetBattleRequest) (*arenav1.GetBattleResponse, error) {
	if _, err := s.callerFromCtx(ctx); err != nil {
		return nil, err
	}
	b, err := s.battles.GetBattle(ctx, req.GetBattleId())
	if err != nil {
		return nil, toStatus("get battle", err)
	}
	return &arenav1.GetBattleResponse{Battle: convert.ToWireBattle(b)}, nil
}

// callerFromCtx returns the identity set by AuthUnary, or verifies the
// "authorization: Bearer <JWT>" metadata itself. Failures are Unauthenticated.
func (s *Server) callerFromCtx(ctx context.Context) (string, error) {
	if id, ok := IdentityFromCtx(ctx); ok {
		return id, nil
	}
	id, err := s.identityFromMD(ctx)
	if err != nil {
		return "", status.Error(codes.Unauthenticated, "no auth")
	}
	return id, nil
}

func (s *Server) identityFromMD(ctx context.Context) (string, error) {
	tok, err := bearerTokenFromMD(ctx)
	if err != nil {
		return "", err
	}
	return identity.Parse(s.signKey, tok)
}

func bearerTokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
			t := strings.TrimSpace(v[7:])
			if t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("no bearer token")
}

var _ arenav1.ArenaServer = (*Server)(nil)
