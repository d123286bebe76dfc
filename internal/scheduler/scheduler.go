package scheduler

import (
	"fmt"
	"slices"
)

// 节目单中的特殊位置标记，二者都不等于任何真实节目
const (
	Empty        RoutineID = -1
	Intermission RoutineID = -2
)

const (
	DefaultIntermissionLength = 900
	DefaultBeamWidth          = 3
	IntermissionName          = "中场休息"
)

// Schedule: 节目单，下标即出场位置
type Schedule []RoutineID

func (s Schedule) Clone() Schedule {
	return slices.Clone(s)
}

// OpenPositions 返回所有空位的下标
func (s Schedule) OpenPositions() []int {
	positions := make([]int, 0)
	for i, id := range s {
		if id == Empty {
			positions = append(positions, i)
		}
	}
	return positions
}

// ConflictPolicy 决定构造节目单时固定位置冲突的处理方式
type ConflictPolicy string

const (
	// ConflictReject 直接返回 PlacementConflictError
	ConflictReject ConflictPolicy = "reject"
	// ConflictDisplace 后写入的节目占据位置，被挤出的节目交由搜索重新安排，并记录一条 Warning
	ConflictDisplace ConflictPolicy = "displace"
)

type Options struct {
	IntermissionLength   int
	IntermissionPosition *int
	BeamWidth            int
	ConflictPolicy       ConflictPolicy
	Parallel             bool
}

func DefaultOptions() Options {
	return Options{
		IntermissionLength: DefaultIntermissionLength,
		BeamWidth:          DefaultBeamWidth,
		ConflictPolicy:     ConflictReject,
	}
}

type Scheduler struct {
	roster   *Roster
	options  Options
	schedule Schedule
	unplaced []RoutineID
	fixed    map[RoutineID]int // 构造时就确定位置的节目

	intermission    Routine
	intermissionPos int

	priorities []int64
	scales     [][]int64 // 两个节目共同演员的优先级分数之和，noShared 表示没有共同演员
	nominal    int64     // 未知时长节目的替代时长

	warnings []Warning
}

// New 根据 roster 中的节目构造节目单：放置固定位置的节目，再放置中场休息。
// 构造之后不应再修改 roster。
func New(roster *Roster, opts Options) (*Scheduler, error) {
	if opts.IntermissionLength <= 0 {
		opts.IntermissionLength = DefaultIntermissionLength
	}
	if opts.BeamWidth == 0 {
		opts.BeamWidth = DefaultBeamWidth
	}
	if opts.BeamWidth < 0 {
		return nil, ErrInvalidBeamWidth
	}
	if opts.ConflictPolicy == "" {
		opts.ConflictPolicy = ConflictReject
	}

	n := roster.NumRoutines() + 1
	s := &Scheduler{
		roster:   roster,
		options:  opts,
		schedule: make(Schedule, n),
		unplaced: make([]RoutineID, 0),
		fixed:    make(map[RoutineID]int),
		intermission: Routine{
			Name:       IntermissionName,
			Duration:   opts.IntermissionLength,
			Order:      Unassigned,
			HighEnergy: true,
		},
		nominal:  roster.meanDuration(),
		warnings: make([]Warning, 0),
	}
	for i := range s.schedule {
		s.schedule[i] = Empty
	}
	s.precompute()

	if opts.IntermissionPosition != nil {
		pos := *opts.IntermissionPosition
		if pos < 0 || pos >= n {
			return nil, fmt.Errorf("%w: %d", ErrIntermissionOutOfRange, pos)
		}
		s.schedule[pos] = Intermission
	}

	for i := 0; i < roster.NumRoutines(); i++ {
		if err := s.placeFixed(RoutineID(i)); err != nil {
			return nil, err
		}
	}

	if opts.IntermissionPosition == nil {
		pos, err := s.locateIntermission()
		if err != nil {
			return nil, err
		}
		s.schedule[pos] = Intermission
	}
	s.intermissionPos = slices.Index(s.schedule, Intermission)
	s.intermission.Order = s.intermissionPos

	// 被挤出的节目会追加在末尾，这里恢复为输入顺序
	slices.Sort(s.unplaced)

	return s, nil
}

func (s *Scheduler) placeFixed(id RoutineID) error {
	rt := s.roster.Routine(id)
	if rt.Order == Unassigned {
		s.unplaced = append(s.unplaced, id)
		return nil
	}
	if rt.Order < 0 || rt.Order >= len(s.schedule) {
		s.warnings = append(s.warnings, Warning{
			Routine: rt.Name,
			Message: fmt.Sprintf("指定的位置 %d 超出节目单范围，将自动安排", rt.Order),
		})
		s.unplaced = append(s.unplaced, id)
		return nil
	}

	pos := rt.Order
	occupant := s.schedule[pos]
	if occupant == Empty {
		s.schedule[pos] = id
		s.fixed[id] = pos
		return nil
	}

	if s.options.ConflictPolicy != ConflictDisplace {
		return &PlacementConflictError{Position: pos, Existing: s.Name(occupant), Incoming: rt.Name}
	}

	// 中场休息的位置由调用方显式指定，保留中场休息，节目交由搜索安排
	if occupant == Intermission {
		s.warnings = append(s.warnings, Warning{
			Routine: rt.Name,
			Message: fmt.Sprintf("位置 %d 已指定为中场休息，将自动安排", pos),
		})
		s.unplaced = append(s.unplaced, id)
		return nil
	}

	delete(s.fixed, occupant)
	s.unplaced = append(s.unplaced, occupant)
	s.schedule[pos] = id
	s.fixed[id] = pos
	s.warnings = append(s.warnings, Warning{
		Routine: s.Name(occupant),
		Message: fmt.Sprintf("位置 %d 被节目 %q 占据，将自动安排", pos, rt.Name),
	})
	return nil
}

// locateIntermission 从中点开始左右交替向外寻找空位: mid, mid-1, mid+1, mid-2, mid+2, ...
func (s *Scheduler) locateIntermission() (int, error) {
	pos := len(s.schedule) / 2
	for step := 1; pos >= 0 && pos < len(s.schedule); step++ {
		if s.schedule[pos] == Empty {
			return pos, nil
		}
		if step%2 == 1 {
			pos -= step
		} else {
			pos += step
		}
	}
	return 0, ErrIntermissionUnplaceable
}

func (s *Scheduler) Roster() *Roster {
	return s.roster
}

func (s *Scheduler) Options() Options {
	return s.options
}

func (s *Scheduler) Schedule() Schedule {
	return s.schedule.Clone()
}

func (s *Scheduler) Len() int {
	return len(s.schedule)
}

// Unplaced 返回需要搜索安排的节目，按输入顺序
func (s *Scheduler) Unplaced() []RoutineID {
	return slices.Clone(s.unplaced)
}

func (s *Scheduler) IntermissionPosition() int {
	return s.intermissionPos
}

func (s *Scheduler) Intermission() Routine {
	return s.intermission
}

func (s *Scheduler) Warnings() []Warning {
	return slices.Clone(s.warnings)
}

// Name 返回位置标记或节目的名称
func (s *Scheduler) Name(id RoutineID) string {
	switch id {
	case Empty:
		return ""
	case Intermission:
		return s.intermission.Name
	default:
		return s.roster.Routine(id).Name
	}
}

func (s *Scheduler) routine(id RoutineID) *Routine {
	if id == Intermission {
		return &s.intermission
	}
	return s.roster.Routine(id)
}
