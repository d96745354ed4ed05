package sim

// QueueSnapshot captures queue length and in-service count per station at
// one simulated instant. The engine appends a snapshot at every state
// transition that can change a queue; records are read-only afterward.
type QueueSnapshot struct {
	TMin float64

	QueueSSS int
	InSSS    int

	QueueEasypass int
	InEasypass    int

	QueueEU int
	InEU    int

	QueueTCN int
	InTCN    int
}

// QueueFor returns the queue length for a station.
func (s *QueueSnapshot) QueueFor(st Station) int {
	switch st {
	case StationSSS:
		return s.QueueSSS
	case StationEasypass:
		return s.QueueEasypass
	case StationEU:
		return s.QueueEU
	case StationTCN:
		return s.QueueTCN
	}
	return 0
}

// InServiceFor returns the in-service count for a station.
func (s *QueueSnapshot) InServiceFor(st Station) int {
	switch st {
	case StationSSS:
		return s.InSSS
	case StationEasypass:
		return s.InEasypass
	case StationEU:
		return s.InEU
	case StationTCN:
		return s.InTCN
	}
	return 0
}
