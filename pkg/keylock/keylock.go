package keylock

import (
	"sort"
	"sync"
)

// Locker мьютекс с гранулярностью по ключу
// Записи для ключа живут, пока на них есть ссылки, после чего удаляются
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New создает новый Locker
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock блокирует все переданные ключи и возвращает функцию разблокировки
// Ключи захватываются в отсортированном порядке, дубликаты игнорируются
func (l *Locker) Lock(keys ...string) (unlock func()) {
	keys = normalize(keys)

	acquired := make([]*entry, 0, len(keys))
	for _, key := range keys {
		e := l.acquire(key)
		e.mu.Lock()
		acquired = append(acquired, e)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].mu.Unlock()
				l.release(keys[i])
			}
		})
	}
}

// Len количество ключей, на которые сейчас есть ссылки
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
