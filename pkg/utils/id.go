package utils

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// 去掉容易混淆的字元（0/O、1/I）
const (
	roomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength = 6
)

// GenerateRoomCode 產生一個隨機房間代碼
func GenerateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(roomCodeChars))))
		if err != nil {
			// crypto 來源失敗時退回 math/rand
			code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
			continue
		}
		code[i] = roomCodeChars[n.Int64()]
	}
	return string(code)
}
