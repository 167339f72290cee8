package auth

import (
	"github.com/gorilla/securecookie"
)

// CookieSigner はセッションCookieの値にHMAC署名を付与・検証する。
// 署名とタイムスタンプの付与はsecurecookieが行い、Cookie名も署名対象に含む。
// 有効期限はサーバー側のセッションで管理するため、値自体に期限は設けない。
type CookieSigner struct {
	name  string
	codec *securecookie.SecureCookie
}

// NewCookieSigner はSESSION_SECRETをハッシュ鍵とするCookieSignerを生成する。
// nameには署名対象のCookie名を渡す。
func NewCookieSigner(secret, name string) *CookieSigner {
	codec := securecookie.New([]byte(secret), nil)
	codec.MaxAge(0)
	return &CookieSigner{name: name, codec: codec}
}

// Sign は値に署名を付与する。
func (s *CookieSigner) Sign(value string) (string, error) {
	return s.codec.Encode(s.name, value)
}

// Verify は署名を検証し、元の値を返す。改ざんされている場合はfalseを返す。
func (s *CookieSigner) Verify(signed string) (string, bool) {
	if signed == "" {
		return "", false
	}
	var value string
	if err := s.codec.Decode(s.name, signed, &value); err != nil {
		return "", false
	}
	return value, true
}
