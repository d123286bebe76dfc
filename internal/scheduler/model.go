package scheduler

import (
	"cmp"
	"fmt"
	"slices"
)

// 时长和出场顺序的哨兵值
const (
	UnknownDuration = -1
	Unassigned      = -1
)

type PerformerID int

type RoutineID int

// Performer: 演员，routines 中保存的是其参演节目在 Roster 中的下标
type Performer struct {
	name     string
	routines []RoutineID
}

func (p *Performer) Name() string {
	return p.name
}

// Routines 返回演员参演的节目（按建立关联的先后顺序）
func (p *Performer) Routines() []RoutineID {
	return slices.Clone(p.routines)
}

// PriorityScore 为参演节目数的平方，出场越多的演员在休息时间上的权重越高
func (p *Performer) PriorityScore() int64 {
	n := int64(len(p.routines))
	return n * n
}

// ComparePerformers 按优先级分数比较两个演员，分数相同视为相等
func ComparePerformers(a, b *Performer) int {
	return cmp.Compare(a.PriorityScore(), b.PriorityScore())
}

// Routine: 节目
type Routine struct {
	Name       string
	Duration   int // 秒，UnknownDuration 表示未知
	Order      int // 在节目单中的位置，Unassigned 表示由搜索决定
	HighEnergy bool

	performers []PerformerID
}

func (r *Routine) Performers() []PerformerID {
	return slices.Clone(r.performers)
}

func (r *Routine) HasDuration() bool {
	return r.Duration >= 0
}

// RoutineSpec 用于向 Roster 中添加节目，Performers 会被复制
type RoutineSpec struct {
	Name       string
	Duration   int
	Order      int
	HighEnergy bool
	Performers []PerformerID
}

// Roster 同时持有所有演员和节目，两者之间只通过下标互相引用
type Roster struct {
	performers []*Performer
	routines   []*Routine
	byName     map[string]PerformerID
}

func NewRoster() *Roster {
	return &Roster{
		performers: make([]*Performer, 0),
		routines:   make([]*Routine, 0),
		byName:     make(map[string]PerformerID),
	}
}

// AddPerformer 添加一个演员，同名演员只会被创建一次
func (r *Roster) AddPerformer(name string) PerformerID {
	if id, exists := r.byName[name]; exists {
		return id
	}

	id := PerformerID(len(r.performers))
	r.performers = append(r.performers, &Performer{
		name:     name,
		routines: make([]RoutineID, 0),
	})
	r.byName[name] = id
	return id
}

func (r *Roster) AddRoutine(spec RoutineSpec) (RoutineID, error) {
	for _, p := range spec.Performers {
		if !r.validPerformer(p) {
			return 0, fmt.Errorf("节目 %q 引用了不存在的演员 %d", spec.Name, p)
		}
	}

	id := RoutineID(len(r.routines))
	r.routines = append(r.routines, &Routine{
		Name:       spec.Name,
		Duration:   spec.Duration,
		Order:      spec.Order,
		HighEnergy: spec.HighEnergy,
		performers: make([]PerformerID, 0, len(spec.Performers)),
	})

	for _, p := range spec.Performers {
		r.link(id, p)
	}

	return id, nil
}

func (r *Roster) Performer(id PerformerID) *Performer {
	return r.performers[id]
}

func (r *Roster) Routine(id RoutineID) *Routine {
	return r.routines[id]
}

func (r *Roster) PerformerByName(name string) (PerformerID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

func (r *Roster) NumPerformers() int {
	return len(r.performers)
}

func (r *Roster) NumRoutines() int {
	return len(r.routines)
}

// Link 建立节目和演员之间的双向关联
func (r *Roster) Link(routine RoutineID, performer PerformerID) error {
	if !r.validRoutine(routine) || !r.validPerformer(performer) {
		return fmt.Errorf("无效的关联: 节目 %d, 演员 %d", routine, performer)
	}
	r.link(routine, performer)
	return nil
}

// Unlink 同时从两侧移除关联
func (r *Roster) Unlink(routine RoutineID, performer PerformerID) error {
	if !r.validRoutine(routine) || !r.validPerformer(performer) {
		return fmt.Errorf("无效的关联: 节目 %d, 演员 %d", routine, performer)
	}

	rt := r.routines[routine]
	rt.performers = slices.DeleteFunc(rt.performers, func(id PerformerID) bool { return id == performer })

	p := r.performers[performer]
	p.routines = slices.DeleteFunc(p.routines, func(id RoutineID) bool { return id == routine })
	return nil
}

// SetPerformers 用新的演员集合替换节目原有的演员，并维护双向关联
func (r *Roster) SetPerformers(routine RoutineID, performers []PerformerID) error {
	if !r.validRoutine(routine) {
		return fmt.Errorf("节目 %d 不存在", routine)
	}
	for _, p := range performers {
		if !r.validPerformer(p) {
			return fmt.Errorf("演员 %d 不存在", p)
		}
	}

	for _, p := range r.routines[routine].Performers() {
		if !slices.Contains(performers, p) {
			_ = r.Unlink(routine, p)
		}
	}
	for _, p := range performers {
		r.link(routine, p)
	}
	return nil
}

func (r *Roster) link(routine RoutineID, performer PerformerID) {
	rt := r.routines[routine]
	if !slices.Contains(rt.performers, performer) {
		rt.performers = append(rt.performers, performer)
	}

	p := r.performers[performer]
	if !slices.Contains(p.routines, routine) {
		p.routines = append(p.routines, routine)
	}
}

func (r *Roster) validRoutine(id RoutineID) bool {
	return id >= 0 && int(id) < len(r.routines)
}

func (r *Roster) validPerformer(id PerformerID) bool {
	return id >= 0 && int(id) < len(r.performers)
}

// RoutineScore 为节目中所有演员优先级分数之和
func (r *Roster) RoutineScore(id RoutineID) int64 {
	var score int64
	for _, p := range r.routines[id].performers {
		score += r.performers[p].PriorityScore()
	}
	return score
}

func (r *Roster) CompareRoutines(a, b RoutineID) int {
	return cmp.Compare(r.RoutineScore(a), r.RoutineScore(b))
}

// SharedPerformers 返回两个节目共同的演员，按 PerformerID 升序
func (r *Roster) SharedPerformers(a, b RoutineID) []PerformerID {
	shared := make([]PerformerID, 0)
	for _, p := range r.routines[a].performers {
		if slices.Contains(r.routines[b].performers, p) {
			shared = append(shared, p)
		}
	}
	slices.Sort(shared)
	return shared
}

// meanDuration 为所有已知时长的平均值，用于替代未知时长
func (r *Roster) meanDuration() int64 {
	var sum, n int64
	for _, rt := range r.routines {
		if rt.HasDuration() {
			sum += int64(rt.Duration)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
