// Package imagegen 封裝文字轉圖片的外部服務。
// 生成是異步且可能失敗的；失敗會被分類，讓上層能區分
// 「內容被拒」與一般暫時性錯誤並分別回報給玩家
package imagegen

import (
	"context"
	"errors"
	"fmt"
)

// Generator 是圖片生成閘道：把提示詞轉成一個圖片 URL
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FailureKind 區分生成失敗的類別
type FailureKind string

const (
	KindMissingCredential FailureKind = "missing_credential" // 金鑰缺失或無效
	KindQuotaExceeded     FailureKind = "quota_exceeded"     // 配額用盡
	KindContentRejected   FailureKind = "content_rejected"   // 內容政策拒絕
	KindGeneric           FailureKind = "generic"            // 其他暫時性錯誤
)

// Error 帶有失敗類別的生成錯誤
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("imagegen: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf 取出錯誤的失敗類別，無法辨識時一律視為一般錯誤
func KindOf(err error) FailureKind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindGeneric
}
