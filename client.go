package webmention

import (
	"context"
	"io"

	"github.com/emrgen/webmention/internal/cache"
	"github.com/emrgen/webmention/internal/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Status is the progress record of one webmention.
type Status = cache.Status

type Client interface {
	io.Closer
	// Status reads the status of a webmention token, nil when unknown.
	Status(ctx context.Context, token string) (*Status, error)
	// Healthy reports whether the server answers its health check.
	Healthy(ctx context.Context) (bool, error)
}

type client struct {
	conn   *grpc.ClientConn
	redis  *cache.Redis
	status cache.StatusCache
	health healthpb.HealthClient
}

// NewClient connects to the server's grpc port and to the redis holding
// the webmention statuses.
func NewClient(grpcAddr, redisAddr string) (Client, error) {
	conn, err := grpc.NewClient(grpcAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(server.UnaryRequestTimeInterceptor()),
	)
	if err != nil {
		return nil, err
	}

	redis := cache.NewRedis(redisAddr, "", 0)
	return &client{
		conn:   conn,
		redis:  redis,
		status: cache.NewRedisStatusCache(redis),
		health: healthpb.NewHealthClient(conn),
	}, nil
}

func (c *client) Status(ctx context.Context, token string) (*Status, error) {
	return c.status.GetStatus(ctx, token)
}

func (c *client) Healthy(ctx context.Context) (bool, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

func (c *client) Close() error {
	_ = c.redis.Close()
	return c.conn.Close()
}
