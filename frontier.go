package searchclient

import (
	"container/heap"
	"fmt"
)

// Frontier holds generated states that have not been expanded yet.
// Pop must not be called on an empty frontier.
type Frontier interface {
	Add(s *State)
	Pop() *State
	IsEmpty() bool
	Size() int
	Contains(s *State) bool
	Name() string
}

// Strategy selects a frontier variant.
type Strategy string

const (
	StrategyBFS           Strategy = "bfs"
	StrategyDFS           Strategy = "dfs"
	StrategyAStar         Strategy = "astar"
	StrategyWeightedAStar Strategy = "wastar"
	StrategyGreedy        Strategy = "greedy"
)

// DefaultWeight is the weighted A* weight used when none is given.
const DefaultWeight = 5

// NewFrontier builds the frontier for strategy. weight is only used by
// StrategyWeightedAStar.
func NewFrontier(strategy Strategy, weight int) (Frontier, error) {
	switch strategy {
	case StrategyBFS:
		return NewBFS(), nil
	case StrategyDFS:
		return NewDFS(), nil
	case StrategyAStar:
		return NewBestFirst(AStar()), nil
	case StrategyWeightedAStar:
		return NewBestFirst(WeightedAStar(weight)), nil
	case StrategyGreedy:
		return NewBestFirst(Greedy()), nil
	default:
		return nil, fmt.Errorf("unknown search strategy %q", strategy)
	}
}

// BFS is a first-in first-out frontier.
type BFS struct {
	queue []*State
	head  int
	set   *StateSet
}

func NewBFS() *BFS {
	return &BFS{set: NewStateSet()}
}

func (f *BFS) Add(s *State) {
	f.queue = append(f.queue, s)
	f.set.Add(s)
}

func (f *BFS) Pop() *State {
	if f.IsEmpty() {
		panic("searchclient: pop from empty breadth-first frontier")
	}
	s := f.queue[f.head]
	f.queue[f.head] = nil
	f.head++
	// reclaim the consumed prefix once it dominates the backing array
	if f.head > len(f.queue)/2 && f.head > 1024 {
		f.queue = append([]*State(nil), f.queue[f.head:]...)
		f.head = 0
	}
	f.set.Remove(s)
	return s
}

func (f *BFS) IsEmpty() bool          { return f.Size() == 0 }
func (f *BFS) Size() int              { return len(f.queue) - f.head }
func (f *BFS) Contains(s *State) bool { return f.set.Contains(s) }
func (f *BFS) Name() string           { return "breadth-first search" }

// DFS is a last-in first-out frontier.
type DFS struct {
	stack []*State
	set   *StateSet
}

func NewDFS() *DFS {
	return &DFS{set: NewStateSet()}
}

func (f *DFS) Add(s *State) {
	f.stack = append(f.stack, s)
	f.set.Add(s)
}

func (f *DFS) Pop() *State {
	if f.IsEmpty() {
		panic("searchclient: pop from empty depth-first frontier")
	}
	n := len(f.stack)
	s := f.stack[n-1]
	f.stack[n-1] = nil
	f.stack = f.stack[:n-1]
	f.set.Remove(s)
	return s
}

func (f *DFS) IsEmpty() bool          { return len(f.stack) == 0 }
func (f *DFS) Size() int              { return len(f.stack) }
func (f *DFS) Contains(s *State) bool { return f.set.Contains(s) }
func (f *DFS) Name() string           { return "depth-first search" }

// BestFirst pops the state with the lowest Heuristic.F, earliest insertion
// first among equals. Membership is tracked separately from the heap; heap
// entries whose state is no longer a member are discarded when popped.
type BestFirst struct {
	heuristic Heuristic
	queue     PriorityQueue
	set       *StateSet
	sequence  uint64
}

func NewBestFirst(heuristic Heuristic) *BestFirst {
	return &BestFirst{heuristic: heuristic, set: NewStateSet()}
}

func (f *BestFirst) Add(s *State) {
	heap.Push(&f.queue, &PriorityQueueItem{
		State:    s,
		FCost:    f.heuristic.F(s),
		Sequence: f.sequence,
	})
	f.sequence++
	f.set.Add(s)
}

func (f *BestFirst) Pop() *State {
	for f.queue.Len() > 0 {
		item := heap.Pop(&f.queue).(*PriorityQueueItem)
		if f.set.Remove(item.State) {
			return item.State
		}
	}
	panic("searchclient: pop from empty best-first frontier")
}

func (f *BestFirst) IsEmpty() bool          { return f.set.Len() == 0 }
func (f *BestFirst) Size() int              { return f.set.Len() }
func (f *BestFirst) Contains(s *State) bool { return f.set.Contains(s) }
func (f *BestFirst) Name() string           { return "best-first search using " + f.heuristic.String() }

// Heuristic returns the evaluation ordering this frontier.
func (f *BestFirst) Heuristic() Heuristic { return f.heuristic }
