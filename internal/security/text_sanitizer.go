// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は販売店の自由入力項目からHTMLマークアップを取り除き、
// プレーンテキストとして保存できるようにする。
// bluemondayのStrictPolicyで全タグを除去し、エスケープされた文字参照を元に戻す。
// 文字参照を戻した結果に再びタグが現れる場合は、変化がなくなるまで除去を繰り返す。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses は除去と文字参照の復元を繰り返す上限回数。
const maxSanitizePasses = 8

// angleBrackets は上限回数に達しても残った山括弧を取り除く。
var angleBrackets = strings.NewReplacer("<", "", ">", "")

// TextSanitizer はマークアップを除去してプレーンテキストを返す。
// bluemonday.Policyはスレッドセーフなため、複数goroutineから共有できる。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// PlainText は全てのタグを除去した文字列を返す。
// script, styleの中身も除去する。"&"や"<"などの文字そのものは保持する。
// "&lt;b&gt;"のように文字参照で書かれたタグも除去する。
// 返り値を再度PlainTextに渡しても変化しない。
func (s *TextSanitizer) PlainText(raw string) string {
	out := raw
	for i := 0; i < maxSanitizePasses; i++ {
		if out == "" {
			return ""
		}
		next := html.UnescapeString(s.policy.Sanitize(out))
		if next == out {
			return out
		}
		out = next
	}
	return angleBrackets.Replace(out)
}
