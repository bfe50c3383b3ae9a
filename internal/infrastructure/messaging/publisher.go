package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

const publishTimeout = 3 * time.Second

// EventPublisher 借阅事件发布
// Publish不返回错误：事件在事务提交之后发布，发布失败只记录日志和指标，不影响请求结果
type EventPublisher interface {
	Publish(ctx context.Context, event BorrowEvent)
	Close() error
}

// messagePublisher mq.Publisher满足此接口
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Close() error
}

// NewEventPublisher 按mq.enabled创建发布者
// 开启时连接RabbitMQ失败直接返回错误，不静默降级
func NewEventPublisher(cfg *config.Config) (EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return NopPublisher{}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, err
	}
	return newRabbitPublisher(pub, newBreaker()), nil
}

func newBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker("rabbitmq", circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log := logger.Get()
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("熔断器状态变化")
		},
	})
}

// rabbitPublisher 通过熔断器发布到RabbitMQ
// Broker不可用时熔断器打开，后续事件直接丢弃，避免每个请求都等待发布超时
type rabbitPublisher struct {
	publisher messagePublisher
	breaker   *circuitbreaker.CircuitBreaker
}

func newRabbitPublisher(publisher messagePublisher, breaker *circuitbreaker.CircuitBreaker) *rabbitPublisher {
	return &rabbitPublisher{publisher: publisher, breaker: breaker}
}

func (p *rabbitPublisher) Publish(ctx context.Context, event BorrowEvent) {
	// 请求结束后ctx会被取消，发布使用独立的超时
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.publisher.Publish(ctx, event.Type, event)
	})
	if err == nil {
		return
	}

	log := logger.Get()
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		metrics.RecordPublish(event.Type, metrics.ResultRejected)
		log.Warn().Str("event_id", event.EventID).Str("type", event.Type).Msg("熔断器打开，事件已丢弃")
		return
	}
	log.Error().Err(err).
		Str("event_id", event.EventID).
		Str("type", event.Type).
		Int64("borrow_id", event.BorrowID).
		Msg("发布借阅事件失败")
}

func (p *rabbitPublisher) Close() error {
	return p.publisher.Close()
}

// NopPublisher mq.enabled=false时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BorrowEvent) {}
func (NopPublisher) Close() error                         { return nil }
