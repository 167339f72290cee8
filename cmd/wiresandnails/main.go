// Command wiresandnails はパートナー・販売店管理ポータルのサーバーを起動する。
//
// サブコマンド: serve（デフォルト）, worker, migrate, healthcheck
package main

import (
	"fmt"
	"os"

	"github.com/Adiaj449/wiresandnails/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "wiresandnails: %v\n", err)
		os.Exit(1)
	}
}
