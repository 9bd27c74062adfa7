/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sportify-app/apiserver/internal/mq"
	"github.com/sportify-app/apiserver/internal/obslog"
	"github.com/sportify-app/apiserver/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Inspect match notifications",
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print match notifications as they are published",
	Long: `Subscribes to the configured broker channel and logs every match
notification. Usage:

	BROKER=rabbitmq sportify notifications watch
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.NewFromConfig(ctx, cfg.Broker)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("no broker configured; set BROKER to rabbitmq or pubsub")
		}
		defer broker.Close()

		logger := obslog.L()
		logger.Info("watching notifications", zap.String("channel", cfg.Broker.Channel))

		err = broker.Subscribe(ctx, cfg.Broker.Channel, func(ctx context.Context, msg mq.Message) error {
			var note services.Notification
			if err := json.Unmarshal(msg.Data, &note); err != nil {
				// A payload that does not decode will never decode; ack it.
				logger.Warn("skip malformed notification", zap.String("message_id", msg.ID), zap.Error(err))
				return nil
			}
			logger.Info("notification",
				zap.String("type", note.Type),
				zap.Int("match_id", note.MatchID),
				zap.Int("user_id", note.UserID),
				zap.String("title", note.Title),
				zap.Time("date", note.Date),
				zap.Int("count", note.Count),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscribe: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
}
