// Package http はサービス共通のHTTPクライアントとヘルスチェックを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout はtimeoutが0以下の場合に使用するリクエスト全体のタイムアウトです。
	DefaultTimeout = 30 * time.Second

	// maxIdleConnsPerHost はホストごとのアイドル接続数です。
	// 呼び出し先はOpenAI互換APIの単一ホストなので、標準の2より多く保持します。
	maxIdleConnsPerHost = 10
)

// NewHTTPClient はサブタスク生成のOpenAI互換アダプターが使うHTTPクライアントを作成します。
// リクエストごとに利用者のAPIキーを付与するため、クライアント自体は認証情報を持ちません。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConnsPerHost: 同一プロバイダーへの接続を再利用するため10
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: 生成の完了を待つリクエスト全体のタイムアウト
//
// http.DefaultClientにはタイムアウトがないため使用しないこと。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
