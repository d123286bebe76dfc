package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

// BuildRoster 把一场演出的所有节目转换为 Roster，RoutineID(i) 对应 routines[i]，
// 同名演员视为同一个人
func BuildRoster(routines []*domain.Routine) (*Roster, error) {
	roster := NewRoster()

	for _, rt := range routines {
		performers := make([]PerformerID, 0, len(rt.Performers))
		for _, name := range rt.Performers {
			performers = append(performers, roster.AddPerformer(name))
		}

		spec := RoutineSpec{
			Name:       rt.Name,
			Duration:   UnknownDuration,
			Order:      Unassigned,
			HighEnergy: rt.HighEnergy,
			Performers: performers,
		}
		if rt.Duration != nil {
			spec.Duration = int(*rt.Duration)
		}
		if rt.Order != nil {
			spec.Order = int(*rt.Order)
		}

		if _, err := roster.AddRoutine(spec); err != nil {
			return nil, err
		}
	}

	return roster, nil
}

// ShowOptions 用演出中的中场休息设置覆盖 base
func ShowOptions(show *domain.Show, base Options) Options {
	opts := base
	if show.IntermissionLength > 0 {
		opts.IntermissionLength = int(show.IntermissionLength)
	}
	if show.IntermissionPosition != nil {
		pos := int(*show.IntermissionPosition)
		opts.IntermissionPosition = &pos
	}
	return opts
}

// Lineup 把节目单转换为可以存储和返回给前端的节目单
func (s *Scheduler) Lineup(showID int64, routines []*domain.Routine, score int64) *domain.Lineup {
	lineup := &domain.Lineup{
		ShowID:   showID,
		Slots:    make([]domain.LineupSlot, 0, len(s.schedule)),
		Score:    score,
		Warnings: make([]string, 0, len(s.warnings)),
	}

	for pos, id := range s.schedule {
		slot := domain.LineupSlot{
			Position: int32(pos),
			Name:     s.Name(id),
		}

		switch {
		case id == Intermission:
			length := int32(s.intermission.Duration)
			slot.IsIntermission = true
			slot.Duration = &length
		case id >= 0:
			slot.RoutineID = &routines[id].ID
			slot.Duration = routines[id].Duration
		}

		lineup.Slots = append(lineup.Slots, slot)
	}

	for _, w := range s.warnings {
		lineup.Warnings = append(lineup.Warnings, w.String())
	}

	return lineup
}

// ScheduleFromLineup 把手动提交的节目单转换为 Schedule，用于校验之后的打分
func ScheduleFromLineup(lineup *domain.Lineup, routines []*domain.Routine) (Schedule, error) {
	index := make(map[int64]RoutineID, len(routines))
	for i, rt := range routines {
		index[rt.ID] = RoutineID(i)
	}

	sched := make(Schedule, len(lineup.Slots))
	for i := range sched {
		sched[i] = Empty
	}

	for _, slot := range lineup.Slots {
		if slot.Position < 0 || int(slot.Position) >= len(sched) {
			return nil, fmt.Errorf("位置 %d 超出节目单范围", slot.Position)
		}
		if slot.IsIntermission {
			sched[slot.Position] = Intermission
			continue
		}
		if slot.RoutineID == nil {
			return nil, fmt.Errorf("位置 %d 没有指定节目", slot.Position)
		}
		id, ok := index[*slot.RoutineID]
		if !ok {
			return nil, fmt.Errorf("节目 %d 不属于该演出", *slot.RoutineID)
		}
		sched[slot.Position] = id
	}

	return sched, nil
}
