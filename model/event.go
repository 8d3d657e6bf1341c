package model

// EventKind classifies a mission timeline entry.
type EventKind string

const (
	EventLaunch              EventKind = "launch"
	EventArriveTransferOrbit EventKind = "arrive-transfer-orbit"
	EventDeployShuttle       EventKind = "deploy-shuttle"
	EventShuttleDepart       EventKind = "shuttle-depart"
	EventShuttleRendezvous   EventKind = "shuttle-rendezvous"
	EventShuttleRefuelDone   EventKind = "shuttle-refuel-complete"
	EventShuttleReturn       EventKind = "shuttle-return"
	EventRecoverShuttle      EventKind = "recover-shuttle"
	EventBeginReturnTransfer EventKind = "begin-return-transfer"
	EventArriveReturnOrbit   EventKind = "arrive-return-orbit"
	EventDeorbitBurn         EventKind = "deorbit-burn"
	EventLanding             EventKind = "landing"
)

// MissionEvent is an immutable timeline entry. The sequencer only appends
// events, with non-decreasing timestamps.
type MissionEvent struct {
	Time        float64
	Kind        EventKind
	Description string
}
