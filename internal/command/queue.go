package command

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue — упорядоченная очередь команд.
//
// Queue не потокобезопасна: ею владеет один участник (стек вызывающего
// или воркер). Для обмена между горутинами используйте SyncQueue.
type Queue struct {
	items deque.Deque[*Command]
}

// NewQueue создаёт очередь с начальными командами (в порядке push-back).
func NewQueue(cmds ...*Command) *Queue {
	q := &Queue{}
	for _, cmd := range cmds {
		q.PushBack(cmd)
	}
	return q
}

// PushBack добавляет команду в конец очереди.
func (q *Queue) PushBack(cmd *Command) {
	q.items.PushBack(cmd)
}

// PushFront добавляет команду в начало очереди.
// Используется для retry: повтор выполняется раньше остальной работы.
func (q *Queue) PushFront(cmd *Command) {
	q.items.PushFront(cmd)
}

// PopFront извлекает первую команду. ok == false, если очередь пуста.
func (q *Queue) PopFront() (cmd *Command, ok bool) {
	if q.items.Len() == 0 {
		return nil, false
	}
	return q.items.PopFront(), true
}

// Front возвращает первую команду без извлечения.
func (q *Queue) Front() (*Command, bool) {
	if q.items.Len() == 0 {
		return nil, false
	}
	return q.items.Front(), true
}

// Len возвращает количество команд в очереди.
func (q *Queue) Len() int {
	return q.items.Len()
}

// IsEmpty возвращает true, если очередь пуста.
func (q *Queue) IsEmpty() bool {
	return q.items.Len() == 0
}

// Discard извлекает все команды, освобождая owned-контексты.
// Возвращает количество отброшенных команд.
func (q *Queue) Discard() int {
	n := 0
	for {
		cmd, ok := q.PopFront()
		if !ok {
			return n
		}
		cmd.Release()
		n++
	}
}

// Append переносит все команды из other в конец q, сохраняя порядок.
func (q *Queue) Append(other *Queue) {
	for {
		cmd, ok := other.PopFront()
		if !ok {
			return
		}
		q.PushBack(cmd)
	}
}

// SyncQueue — очередь команд под мьютексом.
//
// Подходит как цель пересылки воркера (KindMoveTo): воркер добавляет
// команды из своей горутины, владелец забирает их через TakeAll.
type SyncQueue struct {
	mu sync.Mutex
	q  Queue
}

// NewSyncQueue создаёт пустую SyncQueue.
func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// PushBack добавляет команду в конец очереди.
func (s *SyncQueue) PushBack(cmd *Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.PushBack(cmd)
}

// PushFront добавляет команду в начало очереди.
func (s *SyncQueue) PushFront(cmd *Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.PushFront(cmd)
}

// PopFront извлекает первую команду.
func (s *SyncQueue) PopFront() (*Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.PopFront()
}

// Len возвращает количество команд.
func (s *SyncQueue) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Len()
}

// TakeAll забирает все накопленные команды в новую Queue.
func (s *SyncQueue) TakeAll() *Queue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &Queue{}
	out.Append(&s.q)
	return out
}
