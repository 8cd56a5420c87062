// Package storage 管理房間的生命週期。
// 所有狀態都在記憶體內、以房間為範圍，程序重啟即消失（刻意不做持久化）
package storage

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"intruder_web/internal/game"
)

// RoomStore 是以房間 ID 為鍵的房間註冊表。
// 空房間會保留一段寬限期讓玩家重連，逾期由定時掃描回收
type RoomStore struct {
	mu         sync.RWMutex
	rooms      map[string]*game.Room
	emptySince map[string]time.Time
	grace      time.Duration
	newRng     func() *rand.Rand
}

// NewRoomStore 建立房間註冊表。
// grace 是空房間保留的寬限期；newRng 提供每個房間自己的隨機來源
func NewRoomStore(grace time.Duration, newRng func() *rand.Rand) *RoomStore {
	return &RoomStore{
		rooms:      make(map[string]*game.Room),
		emptySince: make(map[string]time.Time),
		grace:      grace,
		newRng:     newRng,
	}
}

// GetOrCreate 取得房間，不存在時建立一個新的
func (s *RoomStore) GetOrCreate(id string) *game.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[id]; ok {
		return room
	}
	room := game.NewRoom(id, s.newRng())
	s.rooms[id] = room
	log.Info().Str("room", id).Msg("room created")
	return room
}

// Get 取得房間
func (s *RoomStore) Get(id string) (*game.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

// Delete 移除房間
func (s *RoomStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	delete(s.emptySince, id)
}

// Count 回傳目前的房間數
func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// MarkEmpty 標記房間已無在線玩家，開始計算寬限期
func (s *RoomStore) MarkEmpty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; ok {
		s.emptySince[id] = time.Now()
	}
}

// MarkOccupied 清除空房間標記（有人重連就取消回收）
func (s *RoomStore) MarkOccupied(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.emptySince, id)
}

// Sweep 回收空置超過寬限期的房間，回傳被刪除的房間 ID。
// 刪除前會再檢查一次名冊，寬限期內重連的房間不會被回收
func (s *RoomStore) Sweep(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for id, since := range s.emptySince {
		if now.Sub(since) < s.grace {
			continue
		}
		room, ok := s.rooms[id]
		if ok && !room.Empty() {
			// 標記後有人回來了
			delete(s.emptySince, id)
			continue
		}
		delete(s.rooms, id)
		delete(s.emptySince, id)
		deleted = append(deleted, id)
	}
	return deleted
}

// Run 定期執行回收，直到 ctx 結束
func (s *RoomStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, id := range s.Sweep(now) {
				log.Info().Str("room", id).Msg("expired empty room removed")
			}
		}
	}
}
