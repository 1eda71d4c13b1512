package searchclient

// PriorityQueueItem is one entry of the best-first frontier. Entries with the
// same FCost are ordered by Sequence, the insertion counter.
type PriorityQueueItem struct {
	State    *State
	FCost    int
	Sequence uint64
}

// PriorityQueue implements heap.Interface as a min-heap on (FCost, Sequence).
type PriorityQueue []*PriorityQueueItem

func (queue PriorityQueue) Len() int { return len(queue) }
func (queue PriorityQueue) Less(i, j int) bool {
	if queue[i].FCost != queue[j].FCost {
		return queue[i].FCost < queue[j].FCost
	}
	return queue[i].Sequence < queue[j].Sequence
}
func (queue PriorityQueue) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *PriorityQueue) Push(x any) {
	*queue = append(*queue, x.(*PriorityQueueItem))
}

func (queue *PriorityQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	*queue = oldQueue[:n-1]
	return item
}
