package types

import "fmt"

// DomainStatus is the lifecycle state of a domain, persisted as status_id
type DomainStatus int

const (
	DomainStatusRegistrationPending DomainStatus = iota + 1
	DomainStatusAvailable
	DomainStatusActive
	DomainStatusBlocked
	DomainStatusExpired
	DomainStatusDisabled
)

var statusLabels = map[DomainStatus]string{
	DomainStatusRegistrationPending: "registration_pending",
	DomainStatusAvailable:           "available",
	DomainStatusActive:              "active",
	DomainStatusBlocked:             "blocked",
	DomainStatusExpired:             "expired",
	DomainStatusDisabled:            "disabled",
}

// manualTransitions is the only place allowed manual status changes are declared.
var manualTransitions = map[DomainStatus][]DomainStatus{
	DomainStatusRegistrationPending: {DomainStatusAvailable, DomainStatusDisabled},
	DomainStatusAvailable:           {DomainStatusActive, DomainStatusDisabled},
	DomainStatusActive:              {DomainStatusAvailable, DomainStatusDisabled},
	DomainStatusBlocked:             {DomainStatusAvailable, DomainStatusDisabled},
	DomainStatusExpired:             {DomainStatusDisabled},
	DomainStatusDisabled:            {DomainStatusAvailable},
}

func ParseDomainStatus(v int) (DomainStatus, error) {
	s := DomainStatus(v)
	if !s.IsValid() {
		return 0, fmt.Errorf("unknown domain status: %d", v)
	}
	return s, nil
}

func (s DomainStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s DomainStatus) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// IsAllowedManualChange reports whether an operator may move a domain from "from" to s.
// Staying on the same status is always allowed.
func (s DomainStatus) IsAllowedManualChange(from DomainStatus) bool {
	if s == from {
		return true
	}
	for _, next := range manualTransitions[from] {
		if next == s {
			return true
		}
	}
	return false
}

// Statuses returns all statuses in their declared order
func Statuses() []DomainStatus {
	return []DomainStatus{
		DomainStatusRegistrationPending,
		DomainStatusAvailable,
		DomainStatusActive,
		DomainStatusBlocked,
		DomainStatusExpired,
		DomainStatusDisabled,
	}
}
