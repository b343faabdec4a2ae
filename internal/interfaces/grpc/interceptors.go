package grpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/credscore/internal/infrastructure/monitoring"
	"github.com/turtacn/credscore/internal/infrastructure/ratelimit"
	"github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
	"google.golang.org/grpc"
	grpcCodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const rateLimitScopeGRPC = "grpc"

// InterceptorChain 拦截器链
type InterceptorChain struct {
	log     logger.Logger
	limiter ratelimit.Limiter
	metrics *monitoring.Metrics
}

// NewInterceptorChain 创建拦截器链. limiter and metrics may be nil.
func NewInterceptorChain(log logger.Logger, limiter ratelimit.Limiter, metrics *monitoring.Metrics) *InterceptorChain {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &InterceptorChain{
		log:     log.WithComponent("grpc"),
		limiter: limiter,
		metrics: metrics,
	}
}

// UnaryRecoveryInterceptor 恢复拦截器(捕获 panic)
func (ic *InterceptorChain) UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				ic.log.Error(ctx, "gRPC handler panic recovered", fmt.Errorf("%v", r),
					logger.String("method", info.FullMethod),
				)
				err = status.Error(grpcCodes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}

// UnaryLoggingInterceptor 日志拦截器
func (ic *InterceptorChain) UnaryLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		began := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []logger.Field{
			logger.String("method", info.FullMethod),
			logger.String("client_ip", clientAddr(ctx)),
			logger.String("user_agent", firstMD(ctx, "user-agent")),
			logger.String("request_id", firstMD(ctx, requestIDMetadataKey)),
			logger.Int64("duration_ms", time.Since(began).Milliseconds()),
			logger.String("status", code.String()),
		}
		if code == grpcCodes.Internal || code == grpcCodes.Unavailable {
			ic.log.Warn(ctx, "gRPC request failed", fields...)
		} else {
			ic.log.Info(ctx, "gRPC request completed", fields...)
		}
		return resp, err
	}
}

// UnaryRateLimitInterceptor 限流拦截器, keyed by client address. Limiter failures fail open.
func (ic *InterceptorChain) UnaryRateLimitInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if ic.limiter == nil || info.FullMethod != MethodScore {
			return handler(ctx, req)
		}

		identifier := clientAddr(ctx)
		if identifier == "" {
			identifier = "global"
		}

		res, err := ic.limiter.Allow(ctx, identifier)
		if err != nil {
			ic.log.Error(ctx, "rate limit check failed", err,
				logger.String("identifier", identifier),
				logger.String("method", info.FullMethod),
			)
			// 限流服务故障时降级放行
			return handler(ctx, req)
		}

		if !res.Allowed {
			if ic.metrics != nil {
				ic.metrics.RecordRateLimitHit(rateLimitScopeGRPC)
			}
			ic.log.Warn(ctx, "rate limit exceeded",
				logger.String("identifier", identifier),
				logger.String("method", info.FullMethod),
			)
			return nil, errors.ErrRateLimitExceeded(rateLimitScopeGRPC, int(res.Limit))
		}

		return handler(ctx, req)
	}
}

// UnaryErrorInterceptor 错误转换拦截器(将领域错误转换为 gRPC 状态码)
func (ic *InterceptorChain) UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		return resp, toStatus(err)
	}
}

// toStatus 将服务错误转换为 gRPC 状态
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	svcErr, ok := errors.AsServiceError(err)
	if !ok {
		return status.Error(grpcCodes.Internal, "internal server error")
	}

	switch {
	case errors.IsValidationFailed(svcErr):
		return status.Errorf(grpcCodes.InvalidArgument, "%s: %s",
			svcErr.Description(), strings.Join(errors.Reasons(svcErr), "; "))
	case errors.IsModelUnavailable(svcErr):
		return status.Error(grpcCodes.Unavailable, svcErr.Description())
	}

	switch svcErr.HTTPStatus() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return status.Error(grpcCodes.InvalidArgument, svcErr.Error())
	case http.StatusUnauthorized:
		return status.Error(grpcCodes.Unauthenticated, svcErr.Error())
	case http.StatusNotFound:
		return status.Error(grpcCodes.NotFound, svcErr.Error())
	case http.StatusTooManyRequests:
		return status.Error(grpcCodes.ResourceExhausted, svcErr.Error())
	case http.StatusServiceUnavailable:
		return status.Error(grpcCodes.Unavailable, svcErr.Error())
	default:
		return status.Error(grpcCodes.Internal, "internal server error")
	}
}

// ChainUnaryInterceptors 链式调用所有拦截器
func (ic *InterceptorChain) ChainUnaryInterceptors() grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		ic.UnaryRecoveryInterceptor(),  // 1. 恢复 panic
		ic.UnaryLoggingInterceptor(),   // 2. 日志
		ic.UnaryErrorInterceptor(),     // 3. 错误转换
		ic.UnaryRateLimitInterceptor(), // 4. 限流
	)
}
