package domain

// SupervisorCard is the per-supervisor dashboard view reconstructed from the
// account store and the non-archived ledger entries of a date range.
//
// Keys of the two maps are either a ChannelType string for standard accounts
// or a "partner:<name>" key for partner sub-ledgers.
type SupervisorCard struct {
	SupervisorID   string           `json:"supervisorID"`
	SupervisorName string           `json:"supervisorName"`
	StartOfDay     map[string]int64 `json:"startOfDay"`
	EndOfDay       map[string]int64 `json:"endOfDay"`
	StartTotal     int64            `json:"startTotal"`
	EndTotal       int64            `json:"endTotal"`
	Net            int64            `json:"net"` // EndTotal - StartTotal
	Range          DateRange        `json:"range"`
}

// GlobalDashboard aggregates every active supervisor's card plus the float
// pool position across the network.
type GlobalDashboard struct {
	Cards          []SupervisorCard `json:"cards"`
	StartTotal     int64            `json:"startTotal"`
	EndTotal       int64            `json:"endTotal"`
	Net            int64            `json:"net"`
	FloatPoolStart int64            `json:"floatPoolStart"` // aggregate opening balance on FLOAT_POOL
	FloatPoolNow   int64            `json:"floatPoolNow"`   // aggregate current balance on FLOAT_POOL
	Range          DateRange        `json:"range"`
}
