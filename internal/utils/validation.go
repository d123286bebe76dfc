package utils

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

// NormalizePerformers 去掉演员名字两端的空白以及重复的演员，保持原有顺序
func NormalizePerformers(performers []string) ([]string, error) {
	result := make([]string, 0, len(performers))
	for _, name := range performers {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("演员名字不能为空")
		}
		if slices.Contains(result, name) {
			continue
		}
		result = append(result, name)
	}
	return result, nil
}

func ValidateShow(show *domain.Show) error {
	if show.IntermissionLength < 0 {
		return errors.New("中场休息时长不能为负数")
	}
	if show.IntermissionPosition != nil && *show.IntermissionPosition < 0 {
		return errors.New("中场休息的位置不能为负数")
	}
	return nil
}

// ValidateRoutineOrder 检查节目指定的位置是否与演出中其他节目或中场休息冲突。
// total 为加上这个节目之后演出的节目数，节目单长度为 total+1。
func ValidateRoutineOrder(routine *domain.Routine, show *domain.Show, others []*domain.Routine, total int) error {
	if routine.Duration != nil && *routine.Duration < 0 {
		return errors.New("节目时长不能为负数")
	}
	if routine.Order == nil {
		return nil
	}

	order := *routine.Order
	if order < 0 || int(order) > total {
		return fmt.Errorf("位置 %d 超出节目单范围 0~%d", order, total)
	}
	if show.IntermissionPosition != nil && *show.IntermissionPosition == order {
		return fmt.Errorf("位置 %d 已指定为中场休息", order)
	}
	for _, other := range others {
		if other.ID == routine.ID || other.Order == nil {
			continue
		}
		if *other.Order == order {
			return fmt.Errorf("位置 %d 已被节目 %q 占用", order, other.Name)
		}
	}
	return nil
}

// ValidateLineupWithRoutines 检查手动提交的节目单：位置连续，每个节目恰好出现一次，
// 恰好有一个中场休息，并且指定了位置的节目和中场休息都在指定的位置上
func ValidateLineupWithRoutines(lineup *domain.Lineup, show *domain.Show, routines []*domain.Routine) error {
	if len(lineup.Slots) != len(routines)+1 {
		return fmt.Errorf("节目单应有 %d 个位置，实际有 %d 个", len(routines)+1, len(lineup.Slots))
	}

	positions := make([]bool, len(lineup.Slots))
	seen := make(map[int64]bool, len(routines))
	intermissions := 0

	for _, slot := range lineup.Slots {
		if slot.Position < 0 || int(slot.Position) >= len(positions) {
			return fmt.Errorf("位置 %d 超出节目单范围", slot.Position)
		}
		if positions[slot.Position] {
			return fmt.Errorf("位置 %d 重复", slot.Position)
		}
		positions[slot.Position] = true

		if slot.IsIntermission {
			intermissions++
			if show.IntermissionPosition != nil && *show.IntermissionPosition != slot.Position {
				return fmt.Errorf("中场休息应在位置 %d", *show.IntermissionPosition)
			}
			continue
		}

		if slot.RoutineID == nil {
			return fmt.Errorf("位置 %d 没有指定节目", slot.Position)
		}
		if seen[*slot.RoutineID] {
			return fmt.Errorf("节目 %d 出现了多次", *slot.RoutineID)
		}
		seen[*slot.RoutineID] = true

		idx := slices.IndexFunc(routines, func(rt *domain.Routine) bool { return rt.ID == *slot.RoutineID })
		if idx < 0 {
			return fmt.Errorf("节目 %d 不属于该演出", *slot.RoutineID)
		}
		if rt := routines[idx]; rt.Order != nil && *rt.Order != slot.Position {
			return fmt.Errorf("节目 %q 应在位置 %d", rt.Name, *rt.Order)
		}
	}

	if intermissions != 1 {
		return fmt.Errorf("节目单中应恰好有一个中场休息，实际有 %d 个", intermissions)
	}

	return nil
}
