package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func newTestScheduler(t *testing.T, opts Options, defs ...routineDef) *Scheduler {
	t.Helper()

	s, err := New(buildRoster(t, defs...), opts)
	require.NoError(t, err)
	return s
}

func TestScorePairSharedPerformer(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, true, "小明"),
		rt("B", 300, true, "小明"),
	)

	// 小明参演两个节目，优先级分数为 4，两个节目的优先级分数也都为 4
	tests := []struct {
		name  string
		sched Schedule
		i, j  int
		want  int64
	}{
		{"相邻", Schedule{0, 1, Intermission}, 0, 1, 4 + 4},
		{"中间隔着中场休息", Schedule{0, Intermission, 1}, 0, 2, 4 + 4 + 4*900},
		{"中间是空位", Schedule{0, Empty, 1}, 0, 2, 4 + 4 + 4*300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ScorePair(tt.sched, tt.i, tt.j))
		})
	}
}

func TestScorePairLowEnergyAdjacentPenalty(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, false, "小明"),
		rt("B", 200, false, "小明"),
		rt("C", 100, false, "小红"),
	)

	sched := Schedule{0, 1, 2, Intermission}

	// 有共同演员: 4 + 4 - (300 + 200)
	assert.Equal(t, int64(8-500), s.ScorePair(sched, 0, 1))
	// 没有共同演员但相邻且都是低能量
	assert.Equal(t, Independent-1, s.ScorePair(sched, 1, 2))
	// 不相邻
	assert.Equal(t, Independent, s.ScorePair(sched, 0, 2))
	// 与中场休息相邻不受惩罚，中场休息视为高能量
	assert.Equal(t, Independent, s.ScorePair(sched, 2, 3))
}

func TestScorePairIsSymmetric(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, false, "小明", "小红"),
		rt("B", 200, true, "小明"),
		rt("C", UnknownDuration, false, "小红"),
		rt("D", 150, false, "小刚"),
	)
	sched := Schedule{2, 0, Intermission, 3, 1}

	for i := range sched {
		for j := range sched {
			assert.Equal(t, s.ScorePair(sched, i, j), s.ScorePair(sched, j, i), "i=%d j=%d", i, j)
		}
	}
}

func TestScorePairEmptyOrSameSlot(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, true, "小明"),
		rt("B", 300, true, "小明"),
	)

	assert.Equal(t, int64(0), s.ScorePair(Schedule{0, Empty, 1}, 0, 1))
	assert.Equal(t, int64(0), s.ScorePair(Schedule{0, Empty, 1}, 0, 0))
}

func TestScorePairUnknownDurationUsesMean(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", UnknownDuration, false, "小明"),
		rt("B", 300, false, "小明"),
		rt("C", 100, true, "小红"),
	)

	// 已知时长的平均值为 200
	assert.Equal(t, int64(4+4-(200+300)), s.ScorePair(Schedule{0, 1, 2, Intermission}, 0, 1))
}

func TestIndependentExceedsSharedPairs(t *testing.T) {
	defs := make([]routineDef, 0, 20)
	for i := 0; i < 20; i++ {
		// 所有节目都有同一批演员，时长为 1 小时
		defs = append(defs, rt(string(rune('A'+i)), 3600, true, "小明", "小红", "小刚"))
	}
	s := newTestScheduler(t, DefaultOptions(), defs...)

	sched := make(Schedule, s.Len())
	for i := range sched {
		sched[i] = RoutineID(i)
	}
	sched[len(sched)-1] = Intermission

	assert.Less(t, s.ScorePair(sched, 0, len(sched)-2), Independent)
}

func TestScoreRoutineAt(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, true, "小明"),
		rt("B", 300, true, "小明"),
	)
	sched := Schedule{0, Intermission, Empty}

	score, err := s.ScoreRoutineAt(sched, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4+4+4*900)+Independent, score)

	// 节目已经在该位置上时不算冲突
	score, err = s.ScoreRoutineAt(sched, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Independent, score)

	_, err = s.ScoreRoutineAt(sched, 1, 3)
	assert.Error(t, err)

	_, err = s.ScoreRoutineAt(sched, 1, 0)
	var conflict *PlacementConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 0, conflict.Position)
	assert.Equal(t, "A", conflict.Existing)
	assert.Equal(t, "B", conflict.Incoming)
}

func TestScoreSchedule(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("A", 300, true, "小明"),
		rt("B", 300, true, "小明"),
	)

	// 小明的两个节目之间隔着 900 秒的中场休息
	assert.Equal(t, int64(900*4), s.ScoreSchedule(Schedule{0, Intermission, 1}))
	// 连续出场则减去两个节目的时长
	assert.Equal(t, int64(-600*4), s.ScoreSchedule(Schedule{0, 1, Intermission}))
	assert.Equal(t, int64(-600*4), s.ScoreSchedule(Schedule{Intermission, 1, 0}))
}

func TestScoreScheduleEnergy(t *testing.T) {
	s := newTestScheduler(t, DefaultOptions(),
		rt("X", 100, false, "小明"),
		rt("Y", 200, false, "小红"),
		rt("Z", 400, false, "小刚"),
	)

	assert.Equal(t, int64(-300), s.ScoreSchedule(Schedule{0, 1, Intermission, 2}))
	assert.Equal(t, int64(0), s.ScoreSchedule(Schedule{0, Intermission, 1, Empty}))
	// 中间的节目会被计算两次
	assert.Equal(t, int64(-300-600), s.ScoreSchedule(Schedule{0, 1, 2, Intermission}))
}
