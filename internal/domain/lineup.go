package domain

import "time"

type LineupSlot struct {
	Position       int32  `json:"position"`
	RoutineID      *int64 `json:"routineID"` // 中场休息时为空
	IsIntermission bool   `json:"isIntermission"`
	Name           string `json:"name"`
	Duration       *int32 `json:"duration"`
}

type Lineup struct {
	ID        int64        `json:"id"`
	ShowID    int64        `json:"showID"`
	Slots     []LineupSlot `json:"slots"`
	Score     int64        `json:"score"`
	Warnings  []string     `json:"warnings"`
	CreatedAt time.Time    `json:"createdAt"`
	Version   int32        `json:"-"`
}
