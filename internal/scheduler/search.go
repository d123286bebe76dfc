package scheduler

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Result: 搜索得到的完整节目单
type Result struct {
	Schedule Schedule
	Score    int64
	Warnings []Warning
	Expanded int // 搜索过程中展开的节点数
}

// node: 搜索中的一个部分节目单，每个节点持有自己的节目单副本
type node struct {
	schedule Schedule
	unplaced []RoutineID
}

type leaf struct {
	schedule Schedule
	score    int64
}

type candidate struct {
	position int
	score    int64
}

/**
 * Place 为所有未安排的节目寻找位置，并把结果写回节目单和每个节目的 Order
 * 每一步选出优先级分数最高的未安排节目（分数相同时取输入顺序靠前的），
 * 对每个空位计算 ScoreRoutineAt，保留得分最高的 BeamWidth 个位置（分数相同时取位置靠前的），
 * 最后在所有完整节目单中选出 ScoreSchedule 最高的一个（分数相同时取先找到的）。
 * 搜索不保证找到全局最优解。
 */
func (s *Scheduler) Place(ctx context.Context) (*Result, error) {
	root := node{
		schedule: s.schedule.Clone(),
		unplaced: slices.Clone(s.unplaced),
	}

	var (
		best     *leaf
		expanded int
		err      error
	)
	if s.options.Parallel && len(root.unplaced) > 0 {
		best, expanded, err = s.searchParallel(ctx, root)
	} else {
		best, expanded, err = s.search(ctx, root)
	}
	if err != nil {
		return nil, err
	}

	if err := s.commit(best.schedule); err != nil {
		return nil, err
	}

	return &Result{
		Schedule: s.schedule.Clone(),
		Score:    best.score,
		Warnings: s.Warnings(),
		Expanded: expanded,
	}, nil
}

// search 用显式栈代替递归进行深度优先搜索，子节点按排名逆序入栈以保证访问顺序
func (s *Scheduler) search(ctx context.Context, root node) (*leaf, int, error) {
	stack := []node{root}
	expanded := 0

	var best *leaf
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, expanded, err
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		expanded++

		if len(n.unplaced) == 0 {
			score := s.ScoreSchedule(n.schedule)
			if best == nil || score > best.score {
				best = &leaf{schedule: n.schedule, score: score}
			}
			continue
		}

		children, err := s.expand(n)
		if err != nil {
			return nil, expanded, err
		}
		for k := len(children) - 1; k >= 0; k-- {
			stack = append(stack, children[k])
		}
	}

	return best, expanded, nil
}

// searchParallel 将根节点的每个分支交给单独的 goroutine，结果与 search 相同
func (s *Scheduler) searchParallel(ctx context.Context, root node) (*leaf, int, error) {
	children, err := s.expand(root)
	if err != nil {
		return nil, 1, err
	}

	leaves := make([]*leaf, len(children))
	counts := make([]int, len(children))

	g, ctx := errgroup.WithContext(ctx)
	for i, child := range children {
		g.Go(func() error {
			l, n, err := s.search(ctx, child)
			leaves[i] = l
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	expanded := 1
	var best *leaf
	for i, l := range leaves {
		expanded += counts[i]
		if best == nil || l.score > best.score {
			best = l
		}
	}
	return best, expanded, nil
}

func (s *Scheduler) expand(n node) ([]node, error) {
	k := s.nextRoutine(n.unplaced)
	id := n.unplaced[k]

	candidates, err := s.rankPositions(n.schedule, id)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoOpenPosition, s.Name(id))
	}

	rest := slices.Delete(slices.Clone(n.unplaced), k, k+1)

	children := make([]node, 0, len(candidates))
	for _, c := range candidates {
		sched := n.schedule.Clone()
		sched[c.position] = id
		children = append(children, node{schedule: sched, unplaced: rest})
	}
	return children, nil
}

// nextRoutine 返回 unplaced 中优先级分数最高的节目的下标
func (s *Scheduler) nextRoutine(unplaced []RoutineID) int {
	best := 0
	for k := 1; k < len(unplaced); k++ {
		if s.priority(unplaced[k]) > s.priority(unplaced[best]) {
			best = k
		}
	}
	return best
}

func (s *Scheduler) rankPositions(sched Schedule, id RoutineID) ([]candidate, error) {
	candidates := make([]candidate, 0)
	for _, pos := range sched.OpenPositions() {
		score, err := s.ScoreRoutineAt(sched, id, pos)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{position: pos, score: score})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(candidates) > s.options.BeamWidth {
		candidates = candidates[:s.options.BeamWidth]
	}
	return candidates, nil
}

// Adopt 使用外部给出的完整节目单代替搜索，校验规则与 Place 的结果相同
func (s *Scheduler) Adopt(sched Schedule) error {
	if len(sched) != len(s.schedule) {
		return fmt.Errorf("%w: 节目单应有 %d 个位置，实际有 %d 个", ErrIncompleteSchedule, len(s.schedule), len(sched))
	}
	if pos := s.options.IntermissionPosition; pos != nil && sched[*pos] != Intermission {
		return fmt.Errorf("%w: %s 应在位置 %d", ErrFixedRoutineMoved, s.intermission.Name, *pos)
	}
	return s.commit(sched)
}

// commit 校验最终节目单并同步每个节目的 Order
func (s *Scheduler) commit(sched Schedule) error {
	seen := make(map[RoutineID]bool, len(sched))
	for pos, id := range sched {
		if id == Empty {
			return fmt.Errorf("%w: 位置 %d 为空", ErrIncompleteSchedule, pos)
		}
		if id != Intermission && (id < 0 || int(id) >= s.roster.NumRoutines()) {
			return fmt.Errorf("%w: 位置 %d 的节目 %d 不存在", ErrIncompleteSchedule, pos, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: 节目 %q 出现了多次", ErrIncompleteSchedule, s.Name(id))
		}
		seen[id] = true

		if want, ok := s.fixed[id]; ok && want != pos {
			return fmt.Errorf("%w: 节目 %q 应在位置 %d，实际在位置 %d", ErrFixedRoutineMoved, s.Name(id), want, pos)
		}
	}

	s.schedule = sched.Clone()
	for pos, id := range s.schedule {
		s.routine(id).Order = pos
	}
	s.intermissionPos = s.intermission.Order
	s.unplaced = s.unplaced[:0]
	return nil
}
