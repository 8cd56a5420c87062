// Package words 提供主題詞庫：每個主題是一組 {主詞, 臥底詞}。
// 詞庫是靜態的外部資料，內建一份預設清單，也可以從 JSON 檔替換
package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Theme 是一組詞：大多數玩家拿 Word，臥底拿 Intruder
type Theme struct {
	Word     string `json:"word"`
	Intruder string `json:"intruder"`
}

// Supplier 從詞庫隨機挑選主題，給定非空詞庫永遠成功
type Supplier struct {
	mu     sync.Mutex
	themes []Theme
	rng    *rand.Rand
}

// NewSupplier 建立一個詞庫供應器，隨機來源由呼叫端注入
func NewSupplier(themes []Theme, rng *rand.Rand) (*Supplier, error) {
	if len(themes) == 0 {
		return nil, errors.New("words: empty theme list")
	}
	return &Supplier{themes: themes, rng: rng}, nil
}

// Pick 隨機回傳一個主題
func (s *Supplier) Pick() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themes[s.rng.Intn(len(s.themes))]
}

// Load 從 JSON 檔載入主題清單，格式為 [{"word": ..., "intruder": ...}]
func Load(path string) ([]Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	var themes []Theme
	if err := json.Unmarshal(data, &themes); err != nil {
		return nil, fmt.Errorf("words: parse %s: %w", path, err)
	}
	if len(themes) == 0 {
		return nil, fmt.Errorf("words: %s contains no themes", path)
	}
	return themes, nil
}

// Default 回傳內建的預設詞庫
func Default() []Theme {
	return []Theme{
		{Word: "chat", Intruder: "tigre"},
		{Word: "plage", Intruder: "piscine"},
		{Word: "pizza", Intruder: "tarte"},
		{Word: "guitare", Intruder: "violon"},
		{Word: "avion", Intruder: "fusée"},
		{Word: "château", Intruder: "cathédrale"},
		{Word: "café", Intruder: "thé"},
		{Word: "vélo", Intruder: "moto"},
		{Word: "forêt", Intruder: "jungle"},
		{Word: "neige", Intruder: "pluie"},
		{Word: "dragon", Intruder: "dinosaure"},
		{Word: "bibliothèque", Intruder: "librairie"},
	}
}
