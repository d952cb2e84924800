package types

import (
	"gorm.io/gorm"
	"time"
)

type (
	// Domain is a web property used for campaigns. Rows are soft deleted.
	Domain struct {
		ID               uint         `json:"id" gorm:"primaryKey"`
		Name             string       `json:"name" gorm:"size:255;not null;uniqueIndex:idx_domains_name_type"`
		Type             DomainType   `json:"type" gorm:"size:32;not null;uniqueIndex:idx_domains_name_type"`
		StatusID         DomainStatus `json:"status_id" gorm:"column:status_id;not null;index"`
		SSL              bool         `json:"ssl" gorm:"column:ssl;not null;default:false"`
		CommitID         *string      `json:"commit_id" gorm:"column:commit_id;size:64"`
		ConfigurationID  uint         `json:"configuration_id" gorm:"not null;index"`
		VerticalID       *uint        `json:"vertical_id" gorm:"index"`
		UserID           *uint        `json:"user_id" gorm:"index"`
		AutoRenewal      bool         `json:"auto_renewal"`
		DisableOnVirus   bool         `json:"disable_on_virus"`
		NoTrafficRelease bool         `json:"no_traffic_release"`
		Comment          string       `json:"comment" gorm:"size:1000"`
		AssignedAt       *time.Time   `json:"assigned_at"`
		ExpiresAt        *time.Time   `json:"expires_at"`
		TrafficToday     int          `json:"traffic_today" gorm:"column:traffic_today"`
		TrafficPrior59d  int          `json:"traffic_prior_59d" gorm:"column:traffic_prior_59d"`
		TrafficLast60d   int          `json:"traffic_last_60d" gorm:"column:traffic_last_60d"`
		WhoisData        *WhoisData   `json:"whois_data" gorm:"type:text;serializer:json"`

		CreatedAt time.Time      `json:"created_at"`
		UpdatedAt time.Time      `json:"updated_at"`
		DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

		Configuration *DomainConfiguration `json:"configuration,omitempty" gorm:"foreignKey:ConfigurationID"`
		Vertical      *CampaignVertical    `json:"campaign_vertical,omitempty" gorm:"foreignKey:VerticalID"`
		Webmaster     *User                `json:"webmaster,omitempty" gorm:"foreignKey:UserID"`
		UrlReport     *UrlReport           `json:"virustotal_url_report,omitempty" gorm:"foreignKey:DomainID"`
	}

	// WhoisData points at the last WHOIS response stored for a domain.
	// Body is only set for snapshots kept inline.
	WhoisData struct {
		Location   string    `json:"location,omitempty"`
		Server     string    `json:"server,omitempty"`
		Registered bool      `json:"registered"`
		FetchedAt  time.Time `json:"fetched_at"`
		Body       string    `json:"body,omitempty"`
	}

	// UrlReport is the latest malware scan summary for a domain
	UrlReport struct {
		ID        uint      `json:"id" gorm:"primaryKey"`
		DomainID  uint      `json:"domain_id" gorm:"uniqueIndex"`
		Positives int       `json:"positives"`
		Total     int       `json:"total"`
		Permalink string    `json:"permalink"`
		ScannedAt time.Time `json:"scanned_at"`
	}
)

func (Domain) TableName() string {
	return "domains"
}

func (UrlReport) TableName() string {
	return "virustotal_url_reports"
}

// HasCommit reports whether the domain references a commit in the SSL repository
func (d *Domain) HasCommit() bool {
	return d.CommitID != nil && *d.CommitID != ""
}

func (d *Domain) SetCommit(commitID string) {
	d.CommitID = &commitID
}

func (d *Domain) ClearCommit() {
	d.CommitID = nil
}

// SSLServer returns the SSL server target of the loaded configuration, if any
func (d *Domain) SSLServer() string {
	if d.Configuration == nil {
		return ""
	}
	return d.Configuration.SSLServer
}

func (d *Domain) IsDisabled() bool {
	return d.StatusID == DomainStatusDisabled
}

func (d *Domain) IsTrashed() bool {
	return d.DeletedAt.Valid
}
