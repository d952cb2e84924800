package types

type (
	// DomainConfiguration bundles the SSL server target, CNAME targets and eligible countries
	DomainConfiguration struct {
		ID         uint       `json:"id" yaml:"id" gorm:"primaryKey"`
		Name       string     `json:"name" yaml:"name" gorm:"size:255;not null"`
		SSLServer  string     `json:"ssl_server" yaml:"ssl_server" gorm:"column:ssl_server;size:255"`
		CName      string     `json:"cname" yaml:"cname" gorm:"column:cname;size:255"`
		AlterCName string     `json:"alter_cname" yaml:"alter_cname" gorm:"column:alter_cname;size:255"`
		Zone       string     `json:"zone" yaml:"zone" gorm:"size:64"`
		DomainType DomainType `json:"domain_type" yaml:"domain_type" gorm:"size:32"`

		Countries []Country `json:"countries" yaml:"countries" gorm:"many2many:domain_configuration_countries;joinForeignKey:ConfigurationID;joinReferences:CountryID"`
	}

	Country struct {
		ID   uint   `json:"id" yaml:"id" gorm:"primaryKey"`
		Code string `json:"code" yaml:"code" gorm:"size:2;uniqueIndex"`
		Name string `json:"name" yaml:"name" gorm:"size:255"`
	}

	CampaignVertical struct {
		ID   uint   `json:"id" yaml:"id" gorm:"primaryKey"`
		Name string `json:"name" yaml:"name" gorm:"size:255"`
	}

	// User is a webmaster or a manager. Managers see the domains of their webmasters.
	User struct {
		ID        uint   `json:"id" gorm:"primaryKey"`
		Email     string `json:"email" gorm:"size:255;uniqueIndex"`
		Role      Role   `json:"role" gorm:"size:32"`
		ManagerID *uint  `json:"manager_id" gorm:"index"`
	}

	Role string
)

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleWebmaster Role = "webmaster"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWebmaster:
		return true
	}
	return false
}

func (DomainConfiguration) TableName() string {
	return "domain_configurations"
}

func (CampaignVertical) TableName() string {
	return "campaign_verticals"
}

// HasSSLServer reports whether domains of this configuration take part in SSL provisioning
func (c *DomainConfiguration) HasSSLServer() bool {
	return c != nil && c.SSLServer != ""
}

// DefaultType is the domain type generated domains get for this configuration
func (c *DomainConfiguration) DefaultType() DomainType {
	if c.DomainType.IsValid() {
		return c.DomainType
	}
	return DomainTypePrimary
}
