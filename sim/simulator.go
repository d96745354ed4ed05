// The discrete-event engine. A Simulator owns the logical clock, the event
// heap and the station pools of one terminal; it spawns flight and passenger
// timelines and collects the PassengerResult and QueueSnapshot streams.

package sim

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Horizon buffers applied when no explicit horizon is given: one hour for
// deboarding of the latest flight plus four hours of process and wait time.
const (
	deboardBufferMin = 60.0
	processBufferMin = 240.0
)

// passengerProc is the resumable state of one passenger between events. It
// suspends in exactly two situations: waiting for a station token and
// waiting out a fixed timeout (service, deboarding, walking, bus travel).
type passengerProc struct {
	result PassengerResult

	step           int // stations completed so far
	currentStation Station
	priority       int
	stationArrival float64
	serviceStart   float64
	currentServ    float64
}

// Simulator runs one terminal's flights against one SimConfig. All fields
// are owned by the run; nothing is shared across runs.
type Simulator struct {
	Config    *SimConfig
	Flights   []Flight
	StartTime time.Time // absolute t=0 of the run
	Horizon   float64   // simulated minutes; events at or past it do not run
	Clock     float64   // current simulated time in minutes

	rng         *RunRNG
	events      *EventHeap
	nextEventID uint64

	sss      Resource
	easypass Resource
	eu       Resource
	tcn      Resource

	// euManualWaiting counts passengers currently waiting for an EU counter
	// at high priority. TCN_V routing reads it at decision time.
	euManualWaiting int

	Spawned   int
	Completed int
	Results   []PassengerResult
	Snapshots []QueueSnapshot
}

// NewSimulator validates the config and prepares a run. t0 is the absolute
// instant of simulated time zero (normally the earliest block-in across all
// terminals, so that terminals share one time base). horizonMin <= 0 selects
// the default horizon derived from the latest flight.
func NewSimulator(flights []Flight, cfg *SimConfig, t0 time.Time, seed int64, horizonMin float64) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		Config:    cfg,
		Flights:   flights,
		StartTime: t0,
		rng:       NewRunRNG(seed),
		events:    NewEventHeap(),
	}

	if cfg.SSSEnabled && cfg.CapSSS > 0 {
		s.sss = NewBoundedPool(StationSSS, cfg.CapSSS)
	} else {
		s.sss = &DisabledResource{}
	}
	s.easypass = NewBoundedPool(StationEasypass, cfg.CapEasypass)

	euPool := NewBoundedPool(StationEU, cfg.CapEUSchedule.InitialCapacity(t0))
	tcnPool := NewBoundedPool(StationTCN, cfg.CapTCNSchedule.InitialCapacity(t0))
	s.eu = euPool
	s.tcn = tcnPool
	for _, change := range cfg.CapEUSchedule.Occurrences(t0) {
		s.schedule(&CapacityChangeEvent{
			BaseEvent:   s.newBase(change.AtMin, EventTypeCapacityChange),
			pool:        euPool,
			newCapacity: change.Capacity,
		})
	}
	for _, change := range cfg.CapTCNSchedule.Occurrences(t0) {
		s.schedule(&CapacityChangeEvent{
			BaseEvent:   s.newBase(change.AtMin, EventTypeCapacityChange),
			pool:        tcnPool,
			newCapacity: change.Capacity,
		})
	}

	maxArr := 0.0
	for _, f := range flights {
		arr := math.Max(0, f.ArrivalMin(t0))
		maxArr = math.Max(maxArr, arr)
		flight := f
		s.schedule(&FlightArrivalEvent{
			BaseEvent: s.newBase(arr, EventTypeFlightArrival),
			Flight:    flight,
		})
	}

	if horizonMin > 0 {
		s.Horizon = horizonMin
	} else {
		s.Horizon = maxArr + cfg.DeboardOffsetMin + deboardBufferMin + processBufferMin
	}
	return s, nil
}

// Run executes events in causal order until the heap drains or the horizon
// is reached. Events scheduled at or beyond the horizon are discarded.
func (s *Simulator) Run() {
	for s.events.Len() > 0 {
		e := s.events.PopNext()
		if e.Timestamp() >= s.Horizon {
			s.Clock = s.Horizon
			break
		}
		s.Clock = e.Timestamp()
		logrus.Debugf("<< %s at t=%.3f min", e.Type(), s.Clock)
		e.Execute(s)
	}
	logrus.Infof("run finished at t=%.1f min (seed %d): %d spawned, %d completed, %d snapshots",
		s.Clock, s.rng.Seed(), s.Spawned, s.Completed, len(s.Snapshots))
}

func (s *Simulator) newEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

func (s *Simulator) newBase(at float64, typ EventType) BaseEvent {
	return BaseEvent{timestamp: at, eventID: s.newEventID(), eventType: typ}
}

func (s *Simulator) schedule(e Event) {
	s.events.Schedule(e)
}

func (s *Simulator) resourceFor(st Station) Resource {
	switch st {
	case StationSSS:
		return s.sss
	case StationEasypass:
		return s.easypass
	case StationEU:
		return s.eu
	case StationTCN:
		return s.tcn
	}
	panic("resourceFor: unknown station " + string(st))
}

// snapshot appends the current queue state of all stations.
func (s *Simulator) snapshot() {
	s.Snapshots = append(s.Snapshots, QueueSnapshot{
		TMin:          s.Clock,
		QueueSSS:      s.sss.QueueLen(),
		InSSS:         s.sss.InService(),
		QueueEasypass: s.easypass.QueueLen(),
		InEasypass:    s.easypass.InService(),
		QueueEU:       s.eu.QueueLen(),
		InEU:          s.eu.InService(),
		QueueTCN:      s.tcn.QueueLen(),
		InTCN:         s.tcn.InService(),
	})
}

// handleFlightArrival spawns the flight's passengers. Stands with a walking
// distance deboard sequentially; stands without one are served by bus loads
// that arrive at the control area as a batch.
//
// Random draws happen here in a fixed order: first one group draw per
// passenger, then per passenger (in index order) the deboarding delay,
// walking speed and registration draws. Changing this order would break
// reproducibility.
func (s *Simulator) handleFlightArrival(e *FlightArrivalEvent) {
	f := e.Flight
	cfg := s.Config
	groups := assignGroups(cfg, s.rng, f.Passengers)
	distance := cfg.Stands.DistanceFor(f.Stand)

	logrus.Infof("<< %s arrived at t=%.1f min (distance %.0f m)", f.String(), s.Clock, distance)

	if distance > 0 {
		// Sequential deboarding, each passenger walks individually.
		cumulativeDelay := cfg.DeboardOffsetMin
		for i, g := range groups {
			if i > 0 {
				interDelayS := s.rng.IntBetween(cfg.DeboardDelayMinSeconds, cfg.DeboardDelayMaxSeconds)
				cumulativeDelay += float64(interDelayS) / 60.0
			}
			walk := walkTimeMin(cfg, s.rng, distance)
			ees := drawEESStatus(cfg, s.rng, g)
			s.spawnAfter(cumulativeDelay+walk, f, i+1, g, ees, TransportWalk)
		}
		return
	}

	// Bus transport: loads of up to BusCapacity passengers. Each bus departs
	// when filled; fill time is proportional to its load. All passengers of
	// a bus arrive at the border together, with no inter-passenger delay.
	numBuses := (f.Passengers + cfg.BusCapacity - 1) / cfg.BusCapacity
	lastDeparture := cfg.DeboardOffsetMin
	for bus := 0; bus < numBuses; bus++ {
		firstPax := bus * cfg.BusCapacity
		lastPax := min(firstPax+cfg.BusCapacity, f.Passengers)
		load := lastPax - firstPax

		fill := float64(load) / float64(cfg.BusCapacity) * cfg.BusFillTimeMin
		departure := lastDeparture + fill
		borderArrival := departure + cfg.BusTravelTimeMin

		for i := firstPax; i < lastPax; i++ {
			ees := drawEESStatus(cfg, s.rng, groups[i])
			s.spawnAfter(borderArrival, f, i+1, groups[i], ees, TransportBus)
		}
		lastDeparture = departure
	}
}

// spawnAfter schedules a passenger's arrival at the control area delay
// minutes from now.
func (s *Simulator) spawnAfter(delay float64, f Flight, paxID int, g Group, ees EESStatus, mode TransportMode) {
	p := &passengerProc{
		result: PassengerResult{
			FlightKey: f.Key,
			Flight:    f.Number,
			Stand:     f.Stand,
			PaxID:     paxID,
			Group:     g,
			Transport: mode,
			EESStatus: ees,
		},
	}
	s.schedule(&PassengerSpawnEvent{
		BaseEvent: s.newBase(s.Clock+delay, EventTypePassengerSpawn),
		pax:       p,
	})
}

func (s *Simulator) handlePassengerSpawn(e *PassengerSpawnEvent) {
	p := e.pax
	p.result.ArrivalMin = s.Clock
	p.result.ExitMin = s.Clock
	s.Spawned++
	s.startNextStation(p)
}

// nextStation decides the passenger's next station, or reports that the
// visit sequence is complete. TCN_V routing is re-evaluated here, at the
// instant the passenger is ready for its next request, not at spawn time.
func (s *Simulator) nextStation(p *passengerProc) (Station, int, bool) {
	switch p.result.Group {
	case GroupEasypass:
		if p.step == 0 {
			return StationEasypass, PriorityHigh, true
		}

	case GroupEUManual:
		if p.step == 0 {
			return StationEU, PriorityHigh, true
		}

	case GroupTCNAT:
		if p.step == 0 {
			return s.Config.tcnATRouting().Select(s), PriorityHigh, true
		}

	case GroupTCNV:
		manualStep := 0
		if s.Config.SSSEnabled {
			if p.step == 0 {
				return StationSSS, PriorityHigh, true
			}
			manualStep = 1
		}
		if p.step == manualStep {
			// Use a free EU counter only while no EU citizen is waiting for
			// one; otherwise queue at the TCN counter.
			if s.euManualWaiting == 0 {
				return StationEU, PriorityLow, true
			}
			return StationTCN, PriorityHigh, true
		}
	}
	return "", 0, false
}

func (s *Simulator) startNextStation(p *passengerProc) {
	st, priority, ok := s.nextStation(p)
	if !ok {
		s.finalize(p)
		return
	}

	res := s.resourceFor(st)
	p.currentStation = st
	p.priority = priority
	p.stationArrival = s.Clock
	s.snapshot()

	if st == StationEU && priority == PriorityHigh {
		s.euManualWaiting++
	}
	res.Request(s, priority, func(now float64) {
		s.beginService(p, res, now)
	})
}

// beginService runs when a server token has been acquired. The service
// duration is drawn here, at service start, and the token is held for the
// service plus any configured changeover delay.
func (s *Simulator) beginService(p *passengerProc, res Resource, now float64) {
	st := p.currentStation
	if st == StationEU && p.priority == PriorityHigh {
		s.euManualWaiting--
	}
	p.serviceStart = now
	p.currentServ = serviceTimeMin(s.Config, s.rng, st, p.result.Group, p.result.EESStatus)
	s.snapshot()

	hold := p.currentServ + s.Config.ChangeoverSeconds/60.0
	s.schedule(&ServiceDoneEvent{
		BaseEvent: s.newBase(now+hold, EventTypeServiceDone),
		pax:       p,
		station:   st,
		resource:  res,
	})
}

func (s *Simulator) handleServiceDone(e *ServiceDoneEvent) {
	p := e.pax
	e.resource.Release(s)
	p.result.recordStation(e.station, p.serviceStart-p.stationArrival, p.currentServ)
	s.snapshot()
	p.step++
	s.startNextStation(p)
}

// finalize appends the passenger's result record to the run's result stream.
// Results are ordered by completion.
func (s *Simulator) finalize(p *passengerProc) {
	p.result.ExitMin = s.Clock
	p.result.SystemMin = p.result.ExitMin - p.result.ArrivalMin
	s.Results = append(s.Results, p.result)
	s.Completed++
	logrus.Debugf("passenger %s/%d (%s) left at t=%.2f min after %.2f min",
		p.result.FlightKey, p.result.PaxID, p.result.Group, p.result.ExitMin, p.result.SystemMin)
}
