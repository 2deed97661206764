// Command feedkit 是 feedkit 的命令行入口：校验/执行算法、抓取内容源、生成 feed、管理算法与通知。
package main

import "os"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
