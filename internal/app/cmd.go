package app

import (
	"fmt"
	"strings"
)

// Command はwiresandnailsのサブコマンドを表す。
type Command string

const (
	// CommandServe はパートナー向けAPIとページを配信する。
	CommandServe Command = "serve"
	// CommandWorker は期限切れセッションの掃除を定期実行する。
	CommandWorker Command = "worker"
	// CommandMigrate は未適用のマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中のserveの/healthを叩き、結果を終了コードで返す。
	// DB接続や設定の読み込みは行わない。
	CommandHealthcheck Command = "healthcheck"
)

// commands はParseCommandが受け付けるサブコマンドの一覧。
var commands = []Command{CommandServe, CommandWorker, CommandMigrate, CommandHealthcheck}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数が空の場合はCommandServeを返す。2番目以降の引数は無視する。
// 未知のサブコマンドはエラーにする。
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return CommandServe, nil
	}

	for _, c := range commands {
		if args[0] == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q (available: %s)", args[0], commandNames())
}

func commandNames() string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
