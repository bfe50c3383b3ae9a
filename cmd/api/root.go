package main

import (
	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// 所有子命令共享的配置，在PersistentPreRunE中加载
var cfg *config.Config

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "library-api",
		Short:         "图书馆目录与借还书服务",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return initLogger(cfg.Log)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径(默认查找./config/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateAdminCmd(),
		newVerifyCmd(),
		newEventsCmd(),
	)
	return root
}

func initLogger(c config.LogConfig) error {
	out, err := logger.OpenOutput(c.Output)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{
		Level:  c.Level,
		Pretty: c.Format == "console",
		Output: out,
	})
	return nil
}
