// Resource pools for the service stations. A pool owns a set of
// interchangeable server tokens; passengers acquire a token, hold it for
// their service duration and release it. Capacity is mutated only by the
// pool's own scheduled adjustments, usage only by acquire/release.

package sim

import "github.com/sirupsen/logrus"

// Acquisition priorities for stations that support priority queueing.
// Lower values are served first.
const (
	PriorityHigh = 0 // EU_MANUAL passengers at the EU counter
	PriorityLow  = 1 // TCN_V passengers routed to a free EU counter
)

// Resource is the uniform acquire/release contract of a station. Routing
// code never needs to know whether a station is live or disabled.
type Resource interface {
	// Request queues an acquisition. grant runs as soon as a server token is
	// assigned, possibly synchronously when one is idle. Queue position is
	// priority-then-FIFO.
	Request(sim *Simulator, priority int, grant func(now float64))
	// Release returns the caller's token to the pool and hands it to the
	// next waiter, if any.
	Release(sim *Simulator)

	QueueLen() int
	InService() int
	Capacity() int
}

// DisabledResource is the zero-capacity variant used when a station is
// toggled off. Every request resolves immediately with zero wait; the queue
// is always empty.
type DisabledResource struct{}

func (d *DisabledResource) Request(sim *Simulator, priority int, grant func(now float64)) {
	grant(sim.Clock)
}

func (d *DisabledResource) Release(sim *Simulator) {}

func (d *DisabledResource) QueueLen() int  { return 0 }
func (d *DisabledResource) InService() int { return 0 }
func (d *DisabledResource) Capacity() int  { return 0 }

// poolWaiter is one queued acquisition.
type poolWaiter struct {
	priority int
	seq      uint64 // FIFO tie-breaker within a priority
	grant    func(now float64)
}

// BoundedPool is a counting resource pool with a target capacity. Static
// pools keep their construction capacity forever; scheduled pools are
// retargeted by CapacityChangeEvents.
//
// A capacity increase adds idle tokens immediately. A decrease first removes
// idle tokens and then waits for busy tokens to be released, one per
// release, without ever preempting an in-progress service. Under sustained
// saturation the decrease can therefore lag indefinitely; that is an
// accepted liveness property of the model, not a defect.
type BoundedPool struct {
	station   Station
	idle      int
	inService int
	target    int
	// pendingRemovals counts tokens already subtracted from the target that
	// are still in service and will be retired on release.
	pendingRemovals int
	waiters         []poolWaiter
	nextSeq         uint64
}

// NewBoundedPool creates a pool with a fixed starting capacity.
func NewBoundedPool(station Station, capacity int) *BoundedPool {
	return &BoundedPool{
		station: station,
		idle:    capacity,
		target:  capacity,
	}
}

func (p *BoundedPool) Request(sim *Simulator, priority int, grant func(now float64)) {
	p.nextSeq++
	p.waiters = append(p.waiters, poolWaiter{priority: priority, seq: p.nextSeq, grant: grant})
	p.dispatch(sim)
}

func (p *BoundedPool) Release(sim *Simulator) {
	p.inService--
	if p.pendingRemovals > 0 {
		// Retire the released token instead of reusing it.
		p.pendingRemovals--
		logrus.Debugf("pool %s: retired token on release, capacity now %d (target %d)",
			p.station, p.Capacity(), p.target)
		return
	}
	p.idle++
	p.dispatch(sim)
}

func (p *BoundedPool) QueueLen() int  { return len(p.waiters) }
func (p *BoundedPool) InService() int { return p.inService }

// Capacity is the number of tokens currently existing, idle or in service.
// It trails the target while removals are pending.
func (p *BoundedPool) Capacity() int { return p.idle + p.inService }

// TargetCapacity is the capacity the pool is converging to.
func (p *BoundedPool) TargetCapacity() int { return p.target }

// PendingRemovals is the number of tokens still to be retired to reach the
// target.
func (p *BoundedPool) PendingRemovals() int { return p.pendingRemovals }

// SetTargetCapacity applies a scheduled capacity change.
func (p *BoundedPool) SetTargetCapacity(sim *Simulator, newCapacity int) {
	diff := newCapacity - p.target
	if diff == 0 {
		return
	}
	p.target = newCapacity
	if diff > 0 {
		for i := 0; i < diff; i++ {
			// A pending removal cancels out against a new token.
			if p.pendingRemovals > 0 {
				p.pendingRemovals--
			} else {
				p.idle++
			}
		}
		logrus.Debugf("pool %s: capacity raised to %d at t=%.2f min", p.station, p.target, sim.Clock)
		p.dispatch(sim)
	} else {
		for i := 0; i < -diff; i++ {
			if p.idle > 0 {
				p.idle--
			} else {
				p.pendingRemovals++
			}
		}
		if p.pendingRemovals > 0 {
			logrus.Warnf("pool %s: capacity decrease to %d lagging at t=%.2f min, %d token(s) still in service",
				p.station, p.target, sim.Clock, p.pendingRemovals)
		} else {
			logrus.Debugf("pool %s: capacity lowered to %d at t=%.2f min", p.station, p.target, sim.Clock)
		}
	}
	sim.snapshot()
}

// dispatch hands idle tokens to waiters in priority-then-FIFO order.
func (p *BoundedPool) dispatch(sim *Simulator) {
	for p.idle > 0 && len(p.waiters) > 0 {
		best := 0
		for i := 1; i < len(p.waiters); i++ {
			w, b := p.waiters[i], p.waiters[best]
			if w.priority < b.priority || (w.priority == b.priority && w.seq < b.seq) {
				best = i
			}
		}
		next := p.waiters[best]
		p.waiters = append(p.waiters[:best], p.waiters[best+1:]...)
		p.idle--
		p.inService++
		next.grant(sim.Clock)
	}
}
