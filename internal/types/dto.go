package types

type (
	// Actor is the authenticated caller of an API request
	Actor struct {
		UserID uint
		Role   Role
	}

	CreateDomainParams struct {
		Name             string     `json:"name" validate:"required,fqdn,max=255"`
		Type             DomainType `json:"type" validate:"required,oneof=primary reserve landing redirect"`
		VerticalID       *uint      `json:"vertical_id" validate:"omitempty,min=1"`
		ConfigurationID  uint       `json:"configuration_id" validate:"required"`
		UserID           *uint      `json:"user_id" validate:"omitempty,min=1"`
		AutoRenewal      bool       `json:"auto_renewal"`
		DisableOnVirus   bool       `json:"disable_on_virus"`
		NoTrafficRelease bool       `json:"no_traffic_release"`
		Comment          string     `json:"comment" validate:"max=1000"`
		AlreadyPurchased bool       `json:"already_purchased"`
	}

	// UpdateDomainParams only changes the fields present in the request body.
	// A null user_id or vertical_id clears it.
	UpdateDomainParams struct {
		UserID           Nullable[uint] `json:"user_id" validate:"omitempty,min=1"`
		VerticalID       Nullable[uint] `json:"vertical_id" validate:"omitempty,min=1"`
		AutoRenewal      *bool          `json:"auto_renewal"`
		DisableOnVirus   *bool          `json:"disable_on_virus"`
		NoTrafficRelease *bool          `json:"no_traffic_release"`
		Comment          *string        `json:"comment" validate:"omitempty,max=1000"`
		Status           int            `json:"status" validate:"required,min=1"`
	}

	BuyDomainsParams struct {
		Configurations []uint `json:"configurations" validate:"required,min=1,dive,required"`
	}

	DomainFilter struct {
		Type       string
		Search     string
		VerticalID *uint
		ID         *uint
		Countries  []uint
		Status     *DomainStatus
	}

	ListParams struct {
		Filter  DomainFilter
		Sort    string
		Page    int
		PerPage int
	}

	Page struct {
		Items       []*Domain `json:"items"`
		Total       int64     `json:"total"`
		CurrentPage int       `json:"current_page"`
		PerPage     int       `json:"per_page"`
		LastPage    int       `json:"last_page"`
	}

	Settings struct {
		Configurations []*DomainConfiguration `json:"configurations"`
		Verticals      map[uint]string        `json:"verticals"`
	}

	// UpdateResult carries the updated domain and, when the requested status was
	// refused by the transition policy, the reason it was not applied.
	UpdateResult struct {
		Domain         *Domain `json:"domain"`
		StatusRejected string  `json:"status_rejected,omitempty"`
	}
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 500
	DefaultSort    = "-created_at"
)

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) ID() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
