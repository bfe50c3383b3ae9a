// Package healthcheck gRPC健康检查服务(grpc.health.v1)
// 定期探测数据库和Redis，任一依赖不可用时整体状态为NOT_SERVING
package healthcheck

import (
	"context"
	"fmt"
	"net"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/xiebiao/library/pkg/logger"
)

// ServiceName 对外注册的服务名，空串表示整体状态
const ServiceName = "library.v1.Library"

const probeTimeout = 2 * time.Second

// Probe 依赖探测函数，返回nil表示可用
type Probe func(ctx context.Context) error

// Server gRPC健康检查服务器
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	probes     map[string]Probe
}

// NewServer 创建健康检查服务器，probes的key作为子服务名(database、redis)
func NewServer(probes map[string]Probe) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		probes:     probes,
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	// 注册反射服务（用于grpcurl调试）
	reflection.Register(s.grpcServer)
	return s
}

// Check 执行一轮探测并更新状态，返回不可用的依赖名
func (s *Server) Check(ctx context.Context) []string {
	var failed []string
	for name, probe := range s.probes {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := probe(pctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			failed = append(failed, name)
			log := logger.Get()
			log.Warn().Err(err).Str("dependency", name).Msg("依赖不可用")
		}
		s.health.SetServingStatus(name, status)
	}
	sort.Strings(failed)

	overall := healthpb.HealthCheckResponse_SERVING
	if len(failed) > 0 {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	s.health.SetServingStatus(ServiceName, overall)
	return failed
}

// Run 按interval周期探测，直到ctx取消
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	s.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Serve 在lis上提供服务，阻塞直到Stop
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("gRPC服务异常退出: %w", err)
	}
	return nil
}

// GracefulStop 标记所有服务NOT_SERVING后等待现有请求完成
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
