package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertComplete(t *testing.T, s *Scheduler, sched Schedule) {
	t.Helper()

	require.Len(t, sched, s.Roster().NumRoutines()+1)

	counts := make(map[RoutineID]int)
	for _, id := range sched {
		counts[id]++
	}
	assert.Equal(t, 0, counts[Empty])
	assert.Equal(t, 1, counts[Intermission])
	for i := 0; i < s.Roster().NumRoutines(); i++ {
		assert.Equal(t, 1, counts[RoutineID(i)], "routine %d", i)
	}
}

func TestPlaceIndependentRoutines(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 200, true, "小明"),
		rt("B", 200, true, "小红"),
		rt("C", 200, true, "小刚"),
	)

	res, err := s.Place(context.Background())
	require.NoError(t, err)

	// 所有位置得分相同，按输入顺序填入靠前的位置
	assert.Equal(t, Schedule{0, 1, Intermission, 2}, res.Schedule)
	assert.Equal(t, int64(0), res.Score)
	assert.Equal(t, 16, res.Expanded)
	assertComplete(t, s, res.Schedule)

	assert.Equal(t, 0, s.Roster().Routine(0).Order)
	assert.Equal(t, 1, s.Roster().Routine(1).Order)
	assert.Equal(t, 3, s.Roster().Routine(2).Order)
	assert.Equal(t, 2, s.Intermission().Order)
	assert.Empty(t, s.Unplaced())
	assert.Equal(t, res.Schedule, s.Schedule())
}

func TestPlaceSeparatesSharedPerformer(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, true, "小明"),
		rt("B", 300, true, "小明"),
	)

	res, err := s.Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Schedule{0, Intermission, 1}, res.Schedule)
	assert.Equal(t, int64(900*4), res.Score)
}

func TestPlaceKeepsFixedRoutines(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, false, "小明"),
		rt("B", 240, true, "小明", "小红").at(0),
		rt("C", 180, false, "小红"),
		rt("D", 200, true, "小刚").at(4),
	)

	res, err := s.Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, RoutineID(1), res.Schedule[0])
	assert.Equal(t, RoutineID(3), res.Schedule[4])
	assert.Equal(t, 0, s.Roster().Routine(1).Order)
	assert.Equal(t, 4, s.Roster().Routine(3).Order)
	assertComplete(t, s, res.Schedule)
	assert.Equal(t, s.ScoreSchedule(res.Schedule), res.Score)
}

func TestPlaceAllFixed(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, true, "小明").at(0),
		rt("B", 300, true, "小明").at(1),
	)

	res, err := s.Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Schedule{0, 1, Intermission}, res.Schedule)
	assert.Equal(t, 1, res.Expanded)
}

func TestPlaceBeamWidthLimitsSearch(t *testing.T) {
	defs := []routineDef{
		rt("A", 200, true, "小明"),
		rt("B", 200, true, "小红"),
		rt("C", 200, true, "小刚"),
	}

	narrow := newTestScheduler(t, Options{BeamWidth: 1}, defs...)
	res, err := narrow.Place(context.Background())
	require.NoError(t, err)

	// 每一层只保留一个位置，搜索退化为贪心
	assert.Equal(t, 4, res.Expanded)
	assert.Equal(t, Schedule{0, 1, Intermission, 2}, res.Schedule)
}

func TestPlaceParallelMatchesSequential(t *testing.T) {
	defs := []routineDef{
		rt("开场舞", 240, true, "小明", "小红", "小刚"),
		rt("独舞", 180, false, "小红"),
		rt("双人舞", 200, false, "小明", "小红"),
		rt("街舞", UnknownDuration, true, "小刚", "小丽"),
		rt("民族舞", 260, false, "小丽", "小明"),
		rt("谢幕", 120, true, "小明", "小红", "小刚", "小丽").at(6),
	}

	sequential := newTestScheduler(t, DefaultOptions(), defs...)
	want, err := sequential.Place(context.Background())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Parallel = true
	parallel := newTestScheduler(t, opts, defs...)
	got, err := parallel.Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want.Schedule, got.Schedule)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Expanded, got.Expanded)
	assertComplete(t, parallel, got.Schedule)
	assert.Equal(t, RoutineID(5), got.Schedule[6])
}

func TestPlaceIsDeterministic(t *testing.T) {
	defs := []routineDef{
		rt("A", 240, false, "小明", "小红"),
		rt("B", 180, false, "小红"),
		rt("C", 200, true, "小明"),
		rt("D", 150, false, "小刚"),
	}

	first, err := newTestScheduler(t, DefaultOptions(), defs...).Place(context.Background())
	require.NoError(t, err)
	second, err := newTestScheduler(t, DefaultOptions(), defs...).Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Schedule, second.Schedule)
	assert.Equal(t, first.Score, second.Score)
}

func TestPlaceCancelled(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 200, true, "小明"),
		rt("B", 200, true, "小明"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Place(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	// 失败时节目单保持不变
	assert.Equal(t, []RoutineID{0, 1}, s.Unplaced())
}

func TestPlaceDisplacedRoutine(t *testing.T) {
	opts := DefaultOptions()
	opts.ConflictPolicy = ConflictDisplace

	s := newTestScheduler(t, opts,
		rt("开场舞", 100, true).at(2),
		rt("街舞", 100, true).at(2),
	)

	res, err := s.Place(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Schedule{0, Intermission, 1}, res.Schedule)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "开场舞", res.Warnings[0].Routine)
}

func TestAdopt(t *testing.T) {
	defs := []routineDef{
		rt("A", 300, true, "小明").at(0),
		rt("B", 300, true, "小明"),
		rt("C", 300, true, "小红"),
	}

	t.Run("有效的节目单", func(t *testing.T) {
		s := newTestScheduler(t, DefaultOptions(), defs...)

		require.NoError(t, s.Adopt(Schedule{0, 2, 1, Intermission}))
		assert.Equal(t, Schedule{0, 2, 1, Intermission}, s.Schedule())
		assert.Equal(t, 3, s.IntermissionPosition())
		assert.Equal(t, 2, s.Roster().Routine(1).Order)
		assert.Empty(t, s.Unplaced())
	})

	t.Run("长度不符", func(t *testing.T) {
		s := newTestScheduler(t, DefaultOptions(), defs...)
		assert.ErrorIs(t, s.Adopt(Schedule{0, 1, Intermission}), ErrIncompleteSchedule)
	})

	t.Run("存在空位", func(t *testing.T) {
		s := newTestScheduler(t, DefaultOptions(), defs...)
		assert.ErrorIs(t, s.Adopt(Schedule{0, 1, Empty, Intermission}), ErrIncompleteSchedule)
	})

	t.Run("节目重复", func(t *testing.T) {
		s := newTestScheduler(t, DefaultOptions(), defs...)
		assert.ErrorIs(t, s.Adopt(Schedule{0, 1, 1, Intermission}), ErrIncompleteSchedule)
	})

	t.Run("节目不存在", func(t *testing.T) {
		s := newTestScheduler(t, DefaultOptions(), defs...)
		assert.ErrorIs(t, s.Adopt(Schedule{0, 1, 7, Intermission}), ErrIncompleteSchedule)
	})

	t.Run("固定位置的节目被移动", func(t *testing.T) {
		s := newTestScheduler(t, DefaultOptions(), defs...)
		assert.ErrorIs(t, s.Adopt(Schedule{1, 0, 2, Intermission}), ErrFixedRoutineMoved)
	})

	t.Run("指定位置的中场休息被移动", func(t *testing.T) {
		s := newTestScheduler(t, Options{IntermissionPosition: intPtr(1)}, defs...)
		assert.ErrorIs(t, s.Adopt(Schedule{0, 1, 2, Intermission}), ErrFixedRoutineMoved)
	})
}
