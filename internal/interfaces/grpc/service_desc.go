package grpc

import (
	"context"

	"github.com/turtacn/credscore/internal/application/dto"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "credscore.v1.CreditScoringService"

	MethodScore    = "/" + ServiceName + "/Score"
	MethodGetStats = "/" + ServiceName + "/GetStats"
)

// StatsRequest is the (empty) GetStats request message.
type StatsRequest struct{}

// CreditScoringServer is the server API for CreditScoringService.
// Messages are the HTTP DTOs, encoded with the json codec.
type CreditScoringServer interface {
	Score(context.Context, *dto.CreditScoreRequest) (*dto.CreditScoreResponse, error)
	GetStats(context.Context, *StatsRequest) (*dto.StatsResponse, error)
}

// UnimplementedCreditScoringServer returns Unimplemented for every method.
type UnimplementedCreditScoringServer struct{}

func (UnimplementedCreditScoringServer) Score(context.Context, *dto.CreditScoreRequest) (*dto.CreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Score not implemented")
}

func (UnimplementedCreditScoringServer) GetStats(context.Context, *StatsRequest) (*dto.StatsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStats not implemented")
}

// RegisterCreditScoringServer registers srv on s.
func RegisterCreditScoringServer(s grpclib.ServiceRegistrar, srv CreditScoringServer) {
	s.RegisterService(&creditScoringServiceDesc, srv)
}

var creditScoringServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CreditScoringServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Score", Handler: scoreHandler},
		{MethodName: "GetStats", Handler: getStatsHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "credscore/v1/credit_scoring.proto",
}

func scoreHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(dto.CreditScoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditScoringServer).Score(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodScore}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditScoringServer).Score(ctx, req.(*dto.CreditScoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getStatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditScoringServer).GetStats(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetStats}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditScoringServer).GetStats(ctx, req.(*StatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CreditScoringClient calls CreditScoringService over a json-codec connection.
type CreditScoringClient struct {
	cc grpclib.ClientConnInterface
}

// NewCreditScoringClient wraps cc.
func NewCreditScoringClient(cc grpclib.ClientConnInterface) *CreditScoringClient {
	return &CreditScoringClient{cc: cc}
}

// Score requests a credit decision.
func (c *CreditScoringClient) Score(ctx context.Context, in *dto.CreditScoreRequest, opts ...grpclib.CallOption) (*dto.CreditScoreResponse, error) {
	out := new(dto.CreditScoreResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodScore, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStats fetches aggregate decision statistics.
func (c *CreditScoringClient) GetStats(ctx context.Context, opts ...grpclib.CallOption) (*dto.StatsResponse, error) {
	out := new(dto.StatsResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodGetStats, &StatsRequest{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
