package domain

import "time"

type Routine struct {
	ID         int64     `json:"id"`
	ShowID     int64     `json:"showID"`
	Name       string    `json:"name"`
	Duration   *int32    `json:"duration"` // 秒，为空表示时长未知
	Order      *int32    `json:"order"`    // 为空表示由自动排序决定位置
	HighEnergy bool      `json:"highEnergy"`
	Performers []string  `json:"performers"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
