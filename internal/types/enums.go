package types

type (
	// DomainType categorizes how a domain is used in campaigns
	DomainType string

	// DomainAction is a change requested of the SSL domain repository
	DomainAction string

	// DomainLogAction names an entry in the domain change log
	DomainLogAction string
)

const (
	DomainTypePrimary  DomainType = "primary"
	DomainTypeReserve  DomainType = "reserve"
	DomainTypeLanding  DomainType = "landing"
	DomainTypeRedirect DomainType = "redirect"
)

const (
	DomainActionAdd    DomainAction = "add"
	DomainActionRemove DomainAction = "remove"
)

const (
	DomainLogActionCreate DomainLogAction = "create"
	DomainLogActionUpdate DomainLogAction = "update"
	DomainLogActionDelete DomainLogAction = "delete"
)

func (t DomainType) IsValid() bool {
	switch t {
	case DomainTypePrimary, DomainTypeReserve, DomainTypeLanding, DomainTypeRedirect:
		return true
	}
	return false
}

func (t DomainType) String() string {
	return string(t)
}

func (a DomainAction) IsValid() bool {
	return a == DomainActionAdd || a == DomainActionRemove
}

func (a DomainAction) String() string {
	return string(a)
}

func (a DomainLogAction) String() string {
	return string(a)
}
