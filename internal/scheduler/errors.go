package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBeamWidth        = errors.New("搜索宽度必须大于 0")
	ErrIntermissionOutOfRange  = errors.New("中场休息的位置超出节目单范围")
	ErrIntermissionUnplaceable = errors.New("无法为中场休息找到空位")
	ErrNoOpenPosition          = errors.New("节目单中没有可用的空位")
	ErrIncompleteSchedule      = errors.New("节目单未被完整填充")
	ErrFixedRoutineMoved       = errors.New("固定位置的节目被移动")
)

// PlacementConflictError 表示某个位置已经被另一个节目占用
type PlacementConflictError struct {
	Position int
	Existing string
	Incoming string
}

func (e *PlacementConflictError) Error() string {
	return fmt.Sprintf("位置 %d 已被节目 %q 占用，无法放置节目 %q", e.Position, e.Existing, e.Incoming)
}

// Warning 为不会中断排序的提示信息，由调用方决定如何记录
type Warning struct {
	Routine string `json:"routine"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Routine, w.Message)
}
