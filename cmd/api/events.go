package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/mq"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "消费借阅事件并写入日志",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := mq.NewConsumer(
				cfg.MQ.URL,
				cfg.MQ.Exchange,
				cfg.MQ.ExchangeType,
				cfg.MQ.Queue,
				[]string{messaging.RoutingKeyBorrowAll},
			)
			if err != nil {
				return err
			}
			defer consumer.Close()

			return consumer.Consume(ctx, messaging.LogBorrowEvent)
		},
	}
}
