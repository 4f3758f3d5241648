// Package main 启动 hydrogen 服务.
package main

import (
	"fmt"
	"os"

	"github.com/yeisme/hydrogen/pkg/cmd"
)

//	@title			Hydrogen API
//	@version		1.0.0
//	@description	多租户媒体管理服务: 用户、角色权限、标签、歌曲与视频.

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
