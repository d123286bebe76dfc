package scheduler

import "fmt"

// Independent 是两个没有共同演员的节目之间的得分，它大于任何有共同演员的节目对的得分
// （在演员数、节目数和时长都处于正常范围时）。
const Independent int64 = 1 << 40

/**
 * ScorePair 计算节目单中位置 i 和位置 j 上两个节目的相容得分
 * 1. 没有共同演员: Independent，如果相邻且都是低能量节目则减 1
 * 2. 有共同演员: 两个节目的优先级分数之和 + priorityScale * 两者之间所有节目的时长，
 *    如果相邻且都是低能量节目则减去两者的时长
 * 其中 priorityScale 为共同演员的优先级分数之和
 */
func (s *Scheduler) ScorePair(sched Schedule, i, j int) int64 {
	if sched[i] == Empty || sched[j] == Empty || i == j {
		return 0
	}
	return s.scorePair(prefixDurations(s, sched), i, j, sched[i], sched[j])
}

func (s *Scheduler) scorePair(d durations, i, j int, a, b RoutineID) int64 {
	if i > j {
		i, j = j, i
		a, b = b, a
	}

	adjacent := j-i == 1
	bothLow := s.lowEnergy(a) && s.lowEnergy(b)

	scale := s.scale(a, b)
	if scale == noShared {
		if adjacent && bothLow {
			return Independent - 1
		}
		return Independent
	}

	da, db := s.duration(a), s.duration(b)
	score := s.priority(a) + s.priority(b)
	score += scale * d.between(i, j, (da+db)/2)
	if adjacent && bothLow {
		score -= da + db
	}
	return score
}

// ScoreRoutineAt 计算把节目 id 放在位置 pos 时，它与节目单中其余所有节目的得分之和
func (s *Scheduler) ScoreRoutineAt(sched Schedule, id RoutineID, pos int) (int64, error) {
	if pos < 0 || pos >= len(sched) {
		return 0, fmt.Errorf("位置 %d 超出节目单范围", pos)
	}
	if occupant := sched[pos]; occupant != Empty && occupant != id {
		return 0, &PlacementConflictError{Position: pos, Existing: s.Name(occupant), Incoming: s.Name(id)}
	}

	d := prefixDurations(s, sched)

	var total int64
	for p, other := range sched {
		if p == pos || other == Empty {
			continue
		}
		total += s.scorePair(d, pos, p, id, other)
	}
	return total, nil
}

/**
 * ScoreSchedule 计算整个节目单的得分，分数越高越好
 * 1. 休息: 对每个演员，按其节目列表顺序检查相邻的两个节目，如果在节目单中相邻则减去两者时长，
 *    否则加上两者之间所有节目的时长，最后乘以该演员的优先级分数
 * 2. 能量: 节目单中每对相邻的低能量节目减去两者的时长（中间的节目会被计算两次）
 */
func (s *Scheduler) ScoreSchedule(sched Schedule) int64 {
	at := make([]int, s.roster.NumRoutines())
	for i := range at {
		at[i] = -1
	}
	for pos, id := range sched {
		if id >= 0 {
			at[id] = pos
		}
	}

	d := prefixDurations(s, sched)

	var total int64
	for _, p := range s.roster.performers {
		var rest int64
		for k := 0; k+1 < len(p.routines); k++ {
			a, b := p.routines[k], p.routines[k+1]
			i, j := at[a], at[b]
			if i < 0 || j < 0 {
				continue
			}
			if i > j {
				i, j = j, i
			}

			da, db := s.duration(a), s.duration(b)
			if j-i == 1 {
				rest -= da + db
				continue
			}
			rest += d.between(i, j, (da+db)/2)
		}
		total += rest * p.PriorityScore()
	}

	for k := 0; k+1 < len(sched); k++ {
		a, b := sched[k], sched[k+1]
		if a == Empty || b == Empty {
			continue
		}
		if s.lowEnergy(a) && s.lowEnergy(b) {
			total -= s.duration(a) + s.duration(b)
		}
	}

	return total
}
