package domain

import "time"

type Show struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	StartTime            time.Time `json:"startTime"`
	IntermissionLength   int32     `json:"intermissionLength"`   // 秒
	IntermissionPosition *int32    `json:"intermissionPosition"` // 为空时自动放在节目单中间
	CreatedAt            time.Time `json:"createdAt"`
	Version              int32     `json:"-"`
}
