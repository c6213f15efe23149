package likestate

import (
	"strconv"
	"sync"
)

type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Key 点赞对象
type Key struct {
	Kind Kind
	ID   uint64
}

func (k Key) String() string {
	return string(k.Kind) + ":" + strconv.FormatUint(k.ID, 10)
}

// Observer 阶段变化回调，在 Tracker 锁内调用，不能回调 Tracker
type Observer func(key Key, from, to Phase)

type entry struct {
	phase         Phase
	authoritative Snapshot
	displayed     Snapshot
	inFlight      int
}

// Tracker 维护每个对象的乐观展示值。
// 连续点击不合并：每次点击都在当前猜测上再翻转一次并允许发出新请求，
// 所有在途请求结束后才以服务端值为准。
type Tracker struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	observer Observer
}

func NewTracker(observer Observer) *Tracker {
	return &Tracker{
		entries:  make(map[Key]*entry),
		observer: observer,
	}
}

func (t *Tracker) get(key Key) *entry {
	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	return e
}

func (t *Tracker) transition(key Key, e *entry, to Phase) {
	from := e.phase
	e.phase = to
	if t.observer != nil && from != to {
		t.observer(key, from, to)
	}
}

// Seed 写入服务端值；有请求在途时只更新基线，不覆盖乐观展示
func (t *Tracker) Seed(key Key, authoritative Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.get(key)
	e.authoritative = authoritative
	if e.inFlight == 0 {
		e.displayed = authoritative
	}
}

// Click 立即翻转展示值并登记一个在途请求，返回新的展示值
func (t *Tracker) Click(key Key) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.get(key)
	e.displayed = Flip(e.displayed)
	e.inFlight++
	t.transition(key, e, Pending)
	return e.displayed
}

// Resolve 一个请求成功并取回了服务端值。仍有请求在途时保持当前猜测，
// 最后一个请求结束时对账并回到 Synced。
func (t *Tracker) Resolve(key Key, authoritative Snapshot) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.get(key)
	e.authoritative = authoritative
	if e.inFlight > 0 {
		e.inFlight--
	}
	if e.inFlight > 0 {
		return Outcome{Displayed: e.displayed}
	}

	t.transition(key, e, Reconciling)
	out := Reconcile(e.displayed, authoritative)
	e.displayed = out.Displayed
	t.transition(key, e, Synced)
	return out
}

// Fail 一个请求失败。没有其他在途请求时回退到最近一次服务端值。
func (t *Tracker) Fail(key Key) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.get(key)
	if e.inFlight > 0 {
		e.inFlight--
	}
	if e.inFlight == 0 {
		e.displayed = e.authoritative
		t.transition(key, e, Synced)
	}
	return e.displayed
}

// Displayed 当前应展示的值
func (t *Tracker) Displayed(key Key) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return e.displayed, true
}

func (t *Tracker) Phase(key Key) Phase {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		return e.phase
	}
	return Synced
}

// InFlight 在途请求数
func (t *Tracker) InFlight(key Key) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		return e.inFlight
	}
	return 0
}

// Authoritative 最近一次服务端值
func (t *Tracker) Authoritative(key Key) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		return e.authoritative
	}
	return Snapshot{}
}
