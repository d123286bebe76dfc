package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routineDef 用名字描述节目，便于构造测试数据
type routineDef struct {
	name       string
	duration   int
	order      int
	high       bool
	performers []string
}

func rt(name string, duration int, high bool, performers ...string) routineDef {
	return routineDef{name: name, duration: duration, order: Unassigned, high: high, performers: performers}
}

func (d routineDef) at(order int) routineDef {
	d.order = order
	return d
}

func buildRoster(t *testing.T, defs ...routineDef) *Roster {
	t.Helper()

	roster := NewRoster()
	for _, d := range defs {
		performers := make([]PerformerID, 0, len(d.performers))
		for _, name := range d.performers {
			performers = append(performers, roster.AddPerformer(name))
		}
		_, err := roster.AddRoutine(RoutineSpec{
			Name:       d.name,
			Duration:   d.duration,
			Order:      d.order,
			HighEnergy: d.high,
			Performers: performers,
		})
		require.NoError(t, err)
	}
	return roster
}

func TestAddPerformerDeduplicatesByName(t *testing.T) {
	roster := NewRoster()

	a := roster.AddPerformer("小明")
	b := roster.AddPerformer("小红")
	c := roster.AddPerformer("小明")

	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, roster.NumPerformers())

	id, ok := roster.PerformerByName("小红")
	assert.True(t, ok)
	assert.Equal(t, b, id)

	_, ok = roster.PerformerByName("小刚")
	assert.False(t, ok)
}

func TestAddRoutineLinksBothSides(t *testing.T) {
	roster := buildRoster(t,
		rt("开场舞", 180, true, "小明", "小红"),
		rt("独舞", 120, false, "小红"),
	)

	ming, _ := roster.PerformerByName("小明")
	hong, _ := roster.PerformerByName("小红")

	assert.Equal(t, []PerformerID{ming, hong}, roster.Routine(0).Performers())
	assert.Equal(t, []PerformerID{hong}, roster.Routine(1).Performers())
	assert.Equal(t, []RoutineID{0}, roster.Performer(ming).Routines())
	assert.Equal(t, []RoutineID{0, 1}, roster.Performer(hong).Routines())
}

func TestAddRoutineRejectsUnknownPerformer(t *testing.T) {
	roster := NewRoster()

	_, err := roster.AddRoutine(RoutineSpec{Name: "群舞", Performers: []PerformerID{3}})
	require.Error(t, err)
	assert.Equal(t, 0, roster.NumRoutines())
}

func TestLinkAndUnlinkKeepLinksConsistent(t *testing.T) {
	roster := buildRoster(t,
		rt("开场舞", 180, true, "小明"),
		rt("独舞", 120, false),
	)
	ming, _ := roster.PerformerByName("小明")

	require.NoError(t, roster.Link(1, ming))
	// 重复关联不会产生重复项
	require.NoError(t, roster.Link(1, ming))
	assert.Equal(t, []RoutineID{0, 1}, roster.Performer(ming).Routines())
	assert.Equal(t, []PerformerID{ming}, roster.Routine(1).Performers())

	require.NoError(t, roster.Unlink(0, ming))
	assert.Equal(t, []RoutineID{1}, roster.Performer(ming).Routines())
	assert.Empty(t, roster.Routine(0).Performers())

	assert.Error(t, roster.Link(5, ming))
	assert.Error(t, roster.Unlink(0, 9))
}

func TestSetPerformersReplacesLinks(t *testing.T) {
	roster := buildRoster(t,
		rt("开场舞", 180, true, "小明", "小红"),
	)
	ming, _ := roster.PerformerByName("小明")
	hong, _ := roster.PerformerByName("小红")
	gang := roster.AddPerformer("小刚")

	require.NoError(t, roster.SetPerformers(0, []PerformerID{hong, gang}))

	assert.ElementsMatch(t, []PerformerID{hong, gang}, roster.Routine(0).Performers())
	assert.Empty(t, roster.Performer(ming).Routines())
	assert.Equal(t, []RoutineID{0}, roster.Performer(hong).Routines())
	assert.Equal(t, []RoutineID{0}, roster.Performer(gang).Routines())

	assert.Error(t, roster.SetPerformers(0, []PerformerID{42}))
	assert.Error(t, roster.SetPerformers(3, nil))
}

func TestPriorityScores(t *testing.T) {
	roster := buildRoster(t,
		rt("A", 100, true, "小明", "小红"),
		rt("B", 100, true, "小明"),
		rt("C", 100, true, "小明", "小刚"),
	)
	ming, _ := roster.PerformerByName("小明")
	hong, _ := roster.PerformerByName("小红")

	// 小明参演 3 个节目，小红和小刚各 1 个
	assert.Equal(t, int64(9), roster.Performer(ming).PriorityScore())
	assert.Equal(t, int64(1), roster.Performer(hong).PriorityScore())
	assert.Equal(t, 1, ComparePerformers(roster.Performer(ming), roster.Performer(hong)))
	assert.Equal(t, 0, ComparePerformers(roster.Performer(hong), roster.Performer(hong)))

	assert.Equal(t, int64(10), roster.RoutineScore(0))
	assert.Equal(t, int64(9), roster.RoutineScore(1))
	assert.Equal(t, int64(10), roster.RoutineScore(2))
	assert.Equal(t, 1, roster.CompareRoutines(0, 1))
	assert.Equal(t, 0, roster.CompareRoutines(0, 2))
	assert.Equal(t, -1, roster.CompareRoutines(1, 2))
}

func TestSharedPerformersSorted(t *testing.T) {
	roster := NewRoster()
	a := roster.AddPerformer("a")
	b := roster.AddPerformer("b")
	c := roster.AddPerformer("c")

	_, err := roster.AddRoutine(RoutineSpec{Name: "X", Performers: []PerformerID{c, a, b}})
	require.NoError(t, err)
	_, err = roster.AddRoutine(RoutineSpec{Name: "Y", Performers: []PerformerID{b, c}})
	require.NoError(t, err)
	_, err = roster.AddRoutine(RoutineSpec{Name: "Z"})
	require.NoError(t, err)

	assert.Equal(t, []PerformerID{b, c}, roster.SharedPerformers(0, 1))
	assert.Empty(t, roster.SharedPerformers(0, 2))
}

func TestMeanDurationIgnoresUnknown(t *testing.T) {
	roster := buildRoster(t,
		rt("A", 100, true),
		rt("B", UnknownDuration, true),
		rt("C", 300, true),
	)
	assert.Equal(t, int64(200), roster.meanDuration())
	assert.False(t, roster.Routine(1).HasDuration())

	empty := buildRoster(t, rt("A", UnknownDuration, true))
	assert.Equal(t, int64(0), empty.meanDuration())
}
