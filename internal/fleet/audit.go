package fleet

import "time"

// Audit carries the bookkeeping every aggregate shares. Version is the
// optimistic-concurrency counter: the domain never touches it, the
// persistence layer checks and increments it on save.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

func newAudit(now time.Time) Audit {
	return Audit{CreatedAt: now, UpdatedAt: now}
}

// Touch stamps the aggregate as modified.
func (a *Audit) Touch(now time.Time) {
	a.UpdatedAt = now
}
