package arenav1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "arena.v1.Arena"

// FullMethod returns the "/service/method" path of an Arena method.
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// ArenaServer is the server API for the Arena service.
type ArenaServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	MintDragon(context.Context, *MintDragonRequest) (*MintDragonResponse, error)
	SelectDragon(context.Context, *SelectDragonRequest) (*SelectDragonResponse, error)
	SelectCluster(context.Context, *SelectClusterRequest) (*SelectClusterResponse, error)
	StartBattle(context.Context, *StartBattleRequest) (*StartBattleResponse, error)
	CommitActions(context.Context, *CommitActionsRequest) (*CommitActionsResponse, error)
	RevealActions(context.Context, *RevealActionsRequest) (*RevealActionsResponse, error)
	LevelUp(context.Context, *LevelUpRequest) (*LevelUpResponse, error)
	AwardExperience(context.Context, *AwardExperienceRequest) (*AwardExperienceResponse, error)
	CreateCluster(context.Context, *CreateClusterRequest) (*CreateClusterResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	GetDragon(context.Context, *GetDragonRequest) (*GetDragonResponse, error)
	GetCluster(context.Context, *GetClusterRequest) (*GetClusterResponse, error)
	GetBattle(context.Context, *GetBattleRequest) (*GetBattleResponse, error)
}

// UnimplementedArenaServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible when methods are added.
type UnimplementedArenaServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedArenaServer) CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error) {
	return nil, unimplemented("CreateAccount")
}
func (UnimplementedArenaServer) MintDragon(context.Context, *MintDragonRequest) (*MintDragonResponse, error) {
	return nil, unimplemented("MintDragon")
}
func (UnimplementedArenaServer) SelectDragon(context.Context, *SelectDragonRequest) (*SelectDragonResponse, error) {
	return nil, unimplemented("SelectDragon")
}
func (UnimplementedArenaServer) SelectCluster(context.Context, *SelectClusterRequest) (*SelectClusterResponse, error) {
	return nil, unimplemented("SelectCluster")
}
func (UnimplementedArenaServer) StartBattle(context.Context, *StartBattleRequest) (*StartBattleResponse, error) {
	return nil, unimplemented("StartBattle")
}
func (UnimplementedArenaServer) CommitActions(context.Context, *CommitActionsRequest) (*CommitActionsResponse, error) {
	return nil, unimplemented("CommitActions")
}
func (UnimplementedArenaServer) RevealActions(context.Context, *RevealActionsRequest) (*RevealActionsResponse, error) {
	return nil, unimplemented("RevealActions")
}
func (UnimplementedArenaServer) LevelUp(context.Context, *LevelUpRequest) (*LevelUpResponse, error) {
	return nil, unimplemented("LevelUp")
}
func (UnimplementedArenaServer) AwardExperience(context.Context, *AwardExperienceRequest) (*AwardExperienceResponse, error) {
	return nil, unimplemented("AwardExperience")
}
func (UnimplementedArenaServer) CreateCluster(context.Context, *CreateClusterRequest) (*CreateClusterResponse, error) {
	return nil, unimplemented("CreateCluster")
}
func (UnimplementedArenaServer) GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error) {
	return nil, unimplemented("GetAccount")
}
func (UnimplementedArenaServer) GetDragon(context.Context, *GetDragonRequest) (*GetDragonResponse, error) {
	return nil, unimplemented("GetDragon")
}
func (UnimplementedArenaServer) GetCluster(context.Context, *GetClusterRequest) (*GetClusterResponse, error) {
	return nil, unimplemented("GetCluster")
}
func (UnimplementedArenaServer) GetBattle(context.Context, *GetBattleRequest) (*GetBattleResponse, error) {
	return nil, unimplemented("GetBattle")
}

// RegisterArenaServer attaches srv to a gRPC server.
func RegisterArenaServer(s grpc.ServiceRegistrar, srv ArenaServer) {
	s.RegisterService(&Arena_ServiceDesc, srv)
}

// unaryHandler decodes Req, runs it through the interceptor chain and calls the server method.
func unaryHandler[Req, Resp any](method string, call func(ArenaServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ArenaServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ArenaServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Arena_ServiceDesc describes the Arena service for grpc.Server.RegisterService.
var Arena_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArenaServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unaryHandler("CreateAccount", ArenaServer.CreateAccount)},
		{MethodName: "MintDragon", Handler: unaryHandler("MintDragon", ArenaServer.MintDragon)},
		{MethodName: "SelectDragon", Handler: unaryHandler("SelectDragon", ArenaServer.SelectDragon)},
		{MethodName: "SelectCluster", Handler: unaryHandler("SelectCluster", ArenaServer.SelectCluster)},
		{MethodName: "StartBattle", Handler: unaryHandler("StartBattle", ArenaServer.StartBattle)},
		{MethodName: "CommitActions", Handler: unaryHandler("CommitActions", ArenaServer.CommitActions)},
		{MethodName: "RevealActions", Handler: unaryHandler("RevealActions", ArenaServer.RevealActions)},
		{MethodName: "LevelUp", Handler: unaryHandler("LevelUp", ArenaServer.LevelUp)},
		{MethodName: "AwardExperience", Handler: unaryHandler("AwardExperience", ArenaServer.AwardExperience)},
		{MethodName: "CreateCluster", Handler: unaryHandler("CreateCluster", ArenaServer.CreateCluster)},
		{MethodName: "GetAccount", Handler: unaryHandler("GetAccount", ArenaServer.GetAccount)},
		{MethodName: "GetDragon", Handler: unaryHandler("GetDragon", ArenaServer.GetDragon)},
		{MethodName: "GetCluster", Handler: unaryHandler("GetCluster", ArenaServer.GetCluster)},
		{MethodName: "GetBattle", Handler: unaryHandler("GetBattle", ArenaServer.GetBattle)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/arenav1",
}
