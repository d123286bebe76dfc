package scheduler

const noShared int64 = -1

func (s *Scheduler) precompute() {
	n := s.roster.NumRoutines()

	s.priorities = make([]int64, n)
	for i := 0; i < n; i++ {
		s.priorities[i] = s.roster.RoutineScore(RoutineID(i))
	}

	s.scales = make([][]int64, n)
	for i := 0; i < n; i++ {
		s.scales[i] = make([]int64, n)
		s.scales[i][i] = noShared
		for j := 0; j < i; j++ {
			scale := noShared
			if shared := s.roster.SharedPerformers(RoutineID(i), RoutineID(j)); len(shared) > 0 {
				scale = 0
				for _, p := range shared {
					scale += s.roster.Performer(p).PriorityScore()
				}
			}
			s.scales[i][j] = scale
			s.scales[j][i] = scale
		}
	}
}

func (s *Scheduler) priority(id RoutineID) int64 {
	if id < 0 {
		return 0
	}
	return s.priorities[id]
}

func (s *Scheduler) scale(a, b RoutineID) int64 {
	if a < 0 || b < 0 {
		return noShared
	}
	return s.scales[a][b]
}

// duration 返回节目的时长，未知时使用所有已知时长的平均值
func (s *Scheduler) duration(id RoutineID) int64 {
	rt := s.routine(id)
	if !rt.HasDuration() {
		return s.nominal
	}
	return int64(rt.Duration)
}

func (s *Scheduler) lowEnergy(id RoutineID) bool {
	if id == Empty {
		return false
	}
	return !s.routine(id).HighEnergy
}

// durations 为节目单时长的前缀和，空位和未知时长的位置单独计数
type durations struct {
	known   []int64
	unknown []int64
}

func prefixDurations(s *Scheduler, sched Schedule) durations {
	d := durations{
		known:   make([]int64, len(sched)+1),
		unknown: make([]int64, len(sched)+1),
	}
	for i, id := range sched {
		d.known[i+1] = d.known[i]
		d.unknown[i+1] = d.unknown[i]
		if id == Empty || !s.routine(id).HasDuration() {
			d.unknown[i+1]++
			continue
		}
		d.known[i+1] += int64(s.routine(id).Duration)
	}
	return d
}

// between 返回位置 i 和 j（i < j）之间所有节目的时长之和，空位和未知时长按 fill 计算
func (d durations) between(i, j int, fill int64) int64 {
	if j-i < 2 {
		return 0
	}
	return d.known[j] - d.known[i+1] + (d.unknown[j]-d.unknown[i+1])*fill
}
