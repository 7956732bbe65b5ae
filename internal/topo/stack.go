package topo

// Stack of node or edge indices, used for depth first traversals.
type IntStack []int

func (s *IntStack) Push(i int) {
	*s = append(*s, i)
}

func (s *IntStack) Pop() (int, bool) {
	if len(*s) == 0 {
		return None, false
	}
	i := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return i, true
}

func (s *IntStack) Empty() bool {
	return len(*s) == 0
}
