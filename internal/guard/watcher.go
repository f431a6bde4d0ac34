package guard

import (
	"sync"

	"github.com/spec-kit/car-marketplace-client/internal/session"
)

// Source is the session publisher a watcher follows.
type Source interface {
	Current() session.Model
	Subscribe(fn session.Listener) (unsubscribe func())
}

// Watch evaluates req for location now and again on every session
// replacement, calling onChange whenever the decision changes. The returned
// Outcome is the initial one; stop ends the watch.
func Watch(src Source, req Requirement, location string, onChange func(Outcome)) (initial Outcome, stop func()) {
	var mu sync.Mutex
	last := Evaluate(req, src.Current(), location)

	stop = src.Subscribe(func(m session.Model) {
		next := Evaluate(req, m, location)
		mu.Lock()
		changed := next.Decision != last.Decision
		last = next
		mu.Unlock()
		if changed && onChange != nil {
			onChange(next)
		}
	})
	return last, stop
}
