package serviceImp

import (
	"cropcal/entities"
	"cropcal/pkg/calendar/service"
)

// writeChain tracks the unsaved toggles of one durable calendar. tasks is the
// optimistic array with every queued flip applied; tail is the last queued write.
// The chain is dropped when its last write finishes, so the next toggle reads
// the stored array again.
type writeChain struct {
	tasks  []entities.Task
	tail   *service.Pending
	queued int
}

// enqueue flips taskIndex on the chain for calendarID, seeding it from stored
// when no write is in flight. It returns the optimistic tasks, the new flag
// value and the write to wait for before this one may run. Callers hold s.mu.
func (s *CalendarSvc) enqueue(calendarID string, stored []entities.Task, taskIndex int) ([]entities.Task, bool, *service.Pending) {
	ch, ok := s.chains[calendarID]
	if !ok {
		ch = &writeChain{tasks: entities.CloneTasks(stored)}
		s.chains[calendarID] = ch
	}
	done := !ch.tasks[taskIndex].Done
	ch.tasks[taskIndex].Done = done
	ch.queued++
	return entities.CloneTasks(ch.tasks), done, ch.tail
}

// release marks one write of the chain as finished.
func (s *CalendarSvc) release(calendarID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.chains[calendarID]
	if !ok {
		return
	}
	ch.queued--
	if ch.queued <= 0 {
		delete(s.chains, calendarID)
	}
}
