package grpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/internal/application/service"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

// CreditScoringService implements CreditScoringServer on top of the application services.
type CreditScoringService struct {
	UnimplementedCreditScoringServer
	scoring  service.ScoringAppService
	stats    service.StatsAppService
	validate *validator.Validate
	log      logger.Logger
}

// NewCreditScoringService creates the gRPC facade. stats may be nil, in which case GetStats is unimplemented.
func NewCreditScoringService(scoring service.ScoringAppService, stats service.StatsAppService, log logger.Logger) *CreditScoringService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	// 与 HTTP 绑定使用相同的 binding 标签
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &CreditScoringService{
		scoring:  scoring,
		stats:    stats,
		validate: v,
		log:      log.WithComponent("grpc_credit_service"),
	}
}

// Score checks the request schema, then runs the scoring pipeline.
func (s *CreditScoringService) Score(ctx context.Context, req *dto.CreditScoreRequest) (*dto.CreditScoreResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.ErrInvalidRequest(describeSchemaError(err))
	}
	return s.scoring.Score(ctx, req, requestMeta(ctx))
}

// GetStats returns aggregate statistics.
func (s *CreditScoringService) GetStats(ctx context.Context, _ *StatsRequest) (*dto.StatsResponse, error) {
	if s.stats == nil {
		return s.UnimplementedCreditScoringServer.GetStats(ctx, nil)
	}
	return s.stats.GetStats(ctx)
}

var requestIDMetadataKey = strings.ToLower(constants.HeaderRequestID)

// firstMD returns the first incoming metadata value for key.
func firstMD(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func requestMeta(ctx context.Context) dto.RequestMeta {
	return dto.RequestMeta{ClientIP: clientAddr(ctx), RequestID: firstMD(ctx, requestIDMetadataKey)}
}

// clientAddr prefers x-forwarded-for, then the transport peer host.
func clientAddr(ctx context.Context) string {
	if fwd := firstMD(ctx, "x-forwarded-for"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	if i := strings.LastIndex(addr, ":"); i > 0 && !strings.HasSuffix(addr, "]") {
		return strings.Trim(addr[:i], "[]")
	}
	return addr
}

func describeSchemaError(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s: field required", fe.Field()))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s: must be greater than or equal to %s", fe.Field(), fe.Param()))
		case "lte":
			parts = append(parts, fmt.Sprintf("%s: must be less than or equal to %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
