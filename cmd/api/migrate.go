package main

import (
	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新表结构和索引",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 迁移由本命令显式执行，连接时不再自动迁移
			cfg.Database.AutoMigrate = false
			db, cleanup, err := provideDB(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := database.Migrate(db); err != nil {
				return err
			}
			log := logger.Get()
			log.Info().Str("driver", cfg.Database.Driver).Msg("数据库迁移完成")
			return nil
		},
	}
}
