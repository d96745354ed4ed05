package sim

// Event is a scheduled simulation event. Timestamps are simulated minutes
// relative to the run start.
type Event interface {
	Timestamp() float64
	EventID() uint64
	Type() EventType
	Execute(sim *Simulator)
}

// EventType identifies the kind of a scheduled event.
type EventType string

const (
	EventTypeCapacityChange EventType = "CapacityChange"
	EventTypeFlightArrival  EventType = "FlightArrival"
	EventTypePassengerSpawn EventType = "PassengerSpawn"
	EventTypeServiceDone    EventType = "ServiceDone"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first: capacity changes open counters before
// passengers arriving at the same instant start queueing for them.
var EventTypePriority = map[EventType]int{
	EventTypeCapacityChange: 1,
	EventTypeFlightArrival:  2,
	EventTypePassengerSpawn: 3,
	EventTypeServiceDone:    4,
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	timestamp float64
	eventID   uint64
	eventType EventType
}

func (e *BaseEvent) Timestamp() float64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// FlightArrivalEvent fires at a flight's block-in time and spawns the
// flight's passenger timeline (walking deboard or bus loads).
type FlightArrivalEvent struct {
	BaseEvent
	Flight Flight
}

func (e *FlightArrivalEvent) Execute(sim *Simulator) {
	sim.handleFlightArrival(e)
}

// PassengerSpawnEvent fires when a passenger reaches the control area.
type PassengerSpawnEvent struct {
	BaseEvent
	pax *passengerProc
}

func (e *PassengerSpawnEvent) Execute(sim *Simulator) {
	sim.handlePassengerSpawn(e)
}

// ServiceDoneEvent fires when a passenger's service (plus any changeover
// delay) at a station completes.
type ServiceDoneEvent struct {
	BaseEvent
	pax      *passengerProc
	station  Station
	resource Resource
}

func (e *ServiceDoneEvent) Execute(sim *Simulator) {
	sim.handleServiceDone(e)
}

// CapacityChangeEvent fires at a schedule entry's time and retargets the
// pool's capacity.
type CapacityChangeEvent struct {
	BaseEvent
	pool        *BoundedPool
	newCapacity int
}

func (e *CapacityChangeEvent) Execute(sim *Simulator) {
	e.pool.SetTargetCapacity(sim, e.newCapacity)
}
