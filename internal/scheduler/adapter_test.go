package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

func int32Ptr(v int32) *int32 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func testRoutines() []*domain.Routine {
	return []*domain.Routine{
		{ID: 11, Name: "开场舞", Duration: int32Ptr(240), HighEnergy: true, Performers: []string{"小明", "小红"}},
		{ID: 12, Name: "独舞", Duration: nil, Performers: []string{"小红"}},
		{ID: 15, Name: "谢幕", Duration: int32Ptr(120), Order: int32Ptr(3), HighEnergy: true, Performers: []string{"小明"}},
	}
}

func TestBuildRoster(t *testing.T) {
	roster, err := BuildRoster(testRoutines())
	require.NoError(t, err)

	assert.Equal(t, 3, roster.NumRoutines())
	assert.Equal(t, 2, roster.NumPerformers())

	assert.Equal(t, "开场舞", roster.Routine(0).Name)
	assert.Equal(t, 240, roster.Routine(0).Duration)
	assert.Equal(t, Unassigned, roster.Routine(0).Order)
	assert.Equal(t, UnknownDuration, roster.Routine(1).Duration)
	assert.False(t, roster.Routine(1).HighEnergy)
	assert.Equal(t, 3, roster.Routine(2).Order)

	hong, ok := roster.PerformerByName("小红")
	require.True(t, ok)
	assert.Equal(t, []RoutineID{0, 1}, roster.Performer(hong).Routines())
}

func TestShowOptions(t *testing.T) {
	base := DefaultOptions()

	opts := ShowOptions(&domain.Show{IntermissionLength: 600, IntermissionPosition: int32Ptr(1)}, base)
	assert.Equal(t, 600, opts.IntermissionLength)
	require.NotNil(t, opts.IntermissionPosition)
	assert.Equal(t, 1, *opts.IntermissionPosition)
	assert.Equal(t, base.BeamWidth, opts.BeamWidth)

	opts = ShowOptions(&domain.Show{}, base)
	assert.Equal(t, DefaultIntermissionLength, opts.IntermissionLength)
	assert.Nil(t, opts.IntermissionPosition)
}

func TestLineupFromPlacedSchedule(t *testing.T) {
	routines := testRoutines()
	roster, err := BuildRoster(routines)
	require.NoError(t, err)

	s, err := New(roster, DefaultOptions())
	require.NoError(t, err)

	res, err := s.Place(context.Background())
	require.NoError(t, err)

	lineup := s.Lineup(7, routines, res.Score)
	assert.Equal(t, int64(7), lineup.ShowID)
	assert.Equal(t, res.Score, lineup.Score)
	require.Len(t, lineup.Slots, 4)

	for pos, slot := range lineup.Slots {
		assert.Equal(t, int32(pos), slot.Position)
		if res.Schedule[pos] == Intermission {
			assert.True(t, slot.IsIntermission)
			assert.Nil(t, slot.RoutineID)
			assert.Equal(t, IntermissionName, slot.Name)
			assert.Equal(t, int32(DefaultIntermissionLength), *slot.Duration)
			continue
		}
		rt := routines[res.Schedule[pos]]
		require.NotNil(t, slot.RoutineID)
		assert.Equal(t, rt.ID, *slot.RoutineID)
		assert.Equal(t, rt.Name, slot.Name)
		assert.Equal(t, rt.Duration, slot.Duration)
	}

	// 谢幕固定在最后
	assert.Equal(t, int64(15), *lineup.Slots[3].RoutineID)
}

func TestScheduleFromLineup(t *testing.T) {
	routines := testRoutines()

	lineup := &domain.Lineup{Slots: []domain.LineupSlot{
		{Position: 2, RoutineID: int64Ptr(11)},
		{Position: 0, RoutineID: int64Ptr(12)},
		{Position: 1, IsIntermission: true},
		{Position: 3, RoutineID: int64Ptr(15)},
	}}

	sched, err := ScheduleFromLineup(lineup, routines)
	require.NoError(t, err)
	assert.Equal(t, Schedule{1, Intermission, 0, 2}, sched)

	lineup.Slots[0].RoutineID = int64Ptr(99)
	_, err = ScheduleFromLineup(lineup, routines)
	assert.Error(t, err)

	lineup.Slots[0].RoutineID = nil
	_, err = ScheduleFromLineup(lineup, routines)
	assert.Error(t, err)

	lineup.Slots[0] = domain.LineupSlot{Position: 4, RoutineID: int64Ptr(11)}
	_, err = ScheduleFromLineup(lineup, routines)
	assert.Error(t, err)
}
