// Package api 定義了 HTTP 與 WebSocket 的路由設置。
//
// 房間的建立與查詢走 REST 接口，遊戲本身的互動
// 全部經由 WebSocket 連線進行
package api
