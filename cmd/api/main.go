// library-api 图书馆目录与借还书服务
//
// 子命令：
//
//	serve         启动HTTP服务（默认）
//	migrate       建表建索引
//	create-admin  创建管理员账号
//	verify        检查图书状态与未归还记录是否一致
//	events        消费借阅事件并写入日志
package main

import (
	"os"
)

// @title                       Library API
// @version                     1.0
// @description                 图书馆目录与借还书服务
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
