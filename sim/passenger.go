// Defines the passenger data model: groups, stations, registration status
// and the per-passenger result record emitted by the engine.

package sim

import "fmt"

// Group is a passenger mix group.
type Group string

const (
	GroupEasypass Group = "EASYPASS"  // e-gate users
	GroupEUManual Group = "EU_MANUAL" // EU citizens at manual counters
	GroupTCNAT    Group = "TCN_AT"    // visa-exempt annex-III nationals
	GroupTCNV     Group = "TCN_V"     // visa-subject third-country nationals
)

// Groups lists all mix groups in the fixed order used for weighted
// assignment. The order matters: it defines which cumulative weight bucket a
// draw falls into.
var Groups = []Group{GroupEasypass, GroupEUManual, GroupTCNAT, GroupTCNV}

// RequiresRegistrationStatus reports whether passengers of this group carry
// an EES registration status. Only third-country groups do.
func (g Group) RequiresRegistrationStatus() bool {
	return g == GroupTCNAT || g == GroupTCNV
}

// EESStatus is the EES pre-registration status of a third-country passenger.
// Empty for groups where registration is not meaningful.
type EESStatus string

const (
	EESNone         EESStatus = ""
	EESRegistered   EESStatus = "EES_registered"
	EESUnregistered EESStatus = "EES_unregistered"
)

// Station identifies a service station in the control area.
type Station string

const (
	StationSSS      Station = "SSS"      // self-service kiosk
	StationEasypass Station = "EASYPASS" // automated e-gate
	StationEU       Station = "EU"       // EU manual counter
	StationTCN      Station = "TCN"      // third-country manual counter
)

// Stations lists all stations in snapshot column order.
var Stations = []Station{StationSSS, StationEasypass, StationEU, StationTCN}

// TransportMode is how a passenger reached the control area.
type TransportMode string

const (
	TransportWalk TransportMode = "Walk"
	TransportBus  TransportMode = "Bus"
)

// PassengerResult is the finalized record for one passenger. It is created
// when the passenger spawns and appended to the engine's result stream when
// the passenger completes its last station; the wait/service fields
// accumulate as stations are passed.
type PassengerResult struct {
	FlightKey string
	Flight    string // flight number
	Stand     string
	PaxID     int // sequence id within the flight, 1-based
	Group     Group
	Transport TransportMode
	EESStatus EESStatus

	ArrivalMin float64 // arrival at the control area, minutes from run start
	ExitMin    float64 // exit from the last station
	SystemMin  float64 // ExitMin - ArrivalMin

	WaitSSS      float64
	ServSSS      float64
	WaitEasypass float64
	ServEasypass float64
	WaitEU       float64
	ServEU       float64
	WaitTCN      float64
	ServTCN      float64

	UsedSSS      bool
	UsedEasypass bool
	UsedEU       bool
	UsedTCN      bool
}

// WaitTotal is the summed wait across all stations the passenger visited.
func (pr *PassengerResult) WaitTotal() float64 {
	return pr.WaitSSS + pr.WaitEasypass + pr.WaitEU + pr.WaitTCN
}

// GroupWithEES returns the group label refined by registration status for
// TCN_V passengers ("TCN_V_EES_registered" etc.), the plain group otherwise.
func (pr *PassengerResult) GroupWithEES() string {
	if pr.Group == GroupTCNV && pr.EESStatus != EESNone {
		return fmt.Sprintf("%s_%s", pr.Group, pr.EESStatus)
	}
	return string(pr.Group)
}

// recordStation accumulates wait/service time for a visited station.
func (pr *PassengerResult) recordStation(st Station, wait, serv float64) {
	switch st {
	case StationSSS:
		pr.UsedSSS = true
		pr.WaitSSS += wait
		pr.ServSSS += serv
	case StationEasypass:
		pr.UsedEasypass = true
		pr.WaitEasypass += wait
		pr.ServEasypass += serv
	case StationEU:
		pr.UsedEU = true
		pr.WaitEU += wait
		pr.ServEU += serv
	case StationTCN:
		pr.UsedTCN = true
		pr.WaitTCN += wait
		pr.ServTCN += serv
	}
}
