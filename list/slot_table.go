package list

// SlotTable 固定容量槽位表 Put占用第一个空闲槽位
type SlotTable[T any] struct {
	slot  []T
	inUse []bool
	count int
}

func NewSlotTable[T any](cap int) *SlotTable[T] {
	if cap <= 0 {
		return nil
	}
	s := new(SlotTable[T])
	s.slot = make([]T, cap)
	s.inUse = make([]bool, cap)
	s.count = 0
	return s
}

func (s *SlotTable[T]) Cap() int {
	return len(s.slot)
}

func (s *SlotTable[T]) Count() int {
	return s.count
}

func (s *SlotTable[T]) Put(value T) int {
	for index := 0; index < len(s.slot); index++ {
		if s.inUse[index] {
			continue
		}
		s.slot[index] = value
		s.inUse[index] = true
		s.count++
		return index
	}
	return -1
}

func (s *SlotTable[T]) Get(index int) T {
	if index < 0 || index >= len(s.slot) || !s.inUse[index] {
		var t T
		return t
	}
	return s.slot[index]
}

func (s *SlotTable[T]) Clear(index int) {
	if index < 0 || index >= len(s.slot) || !s.inUse[index] {
		return
	}
	var t T
	s.slot[index] = t
	s.inUse[index] = false
	s.count--
}

func (s *SlotTable[T]) For(fn func(index int, value T) (next bool)) {
	for index := 0; index < len(s.slot); index++ {
		if !s.inUse[index] {
			continue
		}
		next := fn(index, s.slot[index])
		if !next {
			return
		}
	}
}
