package database

import (
	"domainkeeper/internal/types"
	"fmt"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"strings"
)

// ErrInvalidSort is returned for a sort key that is not allowed
var ErrInvalidSort = errors.New("invalid sort")

type sortFunc func(q *gorm.DB, direction string) *gorm.DB

var columnSorts = map[string]string{
	"id":         "domains.id",
	"name":       "domains.name",
	"created_at": "domains.created_at",
	"updated_at": "domains.updated_at",
	"expires_at": "domains.expires_at",
	"type":       "domains.type",
	"status":     "domains.status_id",
	"traffic":    "domains.traffic_last_60d",
}

// joinSorts order by a column of a related table. Each one selects domains.* again
// so the joined columns never shadow the domain ones.
var joinSorts = map[string]sortFunc{
	"vertical_name": func(q *gorm.DB, direction string) *gorm.DB {
		return q.Joins("LEFT JOIN campaign_verticals ON campaign_verticals.id = domains.vertical_id").
			Order("campaign_verticals.name " + direction).
			Select("domains.*")
	},
	"user_id": func(q *gorm.DB, direction string) *gorm.DB {
		return q.Joins("LEFT JOIN users ON users.id = domains.user_id").
			Order("users.email " + direction).
			Select("domains.*")
	},
	"countries": func(q *gorm.DB, direction string) *gorm.DB {
		return q.Joins("LEFT JOIN (SELECT dcc.configuration_id, MIN(c.name) AS country_name " +
			"FROM domain_configuration_countries dcc " +
			"JOIN countries c ON c.id = dcc.country_id " +
			"GROUP BY dcc.configuration_id) cn ON cn.configuration_id = domains.configuration_id").
			Order("cn.country_name " + direction).
			Select("domains.*")
	},
}

// SortKeys lists every accepted sort key
func SortKeys() []string {
	keys := make([]string, 0, len(columnSorts)+len(joinSorts))
	for k := range columnSorts {
		keys = append(keys, k)
	}
	for k := range joinSorts {
		keys = append(keys, k)
	}
	return keys
}

// applySort orders q by a comma separated list of keys, "-" prefix meaning descending
func applySort(q *gorm.DB, sort string) (*gorm.DB, error) {
	if strings.TrimSpace(sort) == "" {
		sort = types.DefaultSort
	}

	for _, key := range strings.Split(sort, ",") {
		key = strings.TrimSpace(key)
		direction := "ASC"
		if strings.HasPrefix(key, "-") {
			direction = "DESC"
			key = strings.TrimPrefix(key, "-")
		}

		if column, ok := columnSorts[key]; ok {
			q = q.Order(fmt.Sprintf("%s %s", column, direction))
			continue
		}

		if fn, ok := joinSorts[key]; ok {
			q = fn(q, direction)
			continue
		}

		return nil, errors.Wrapf(ErrInvalidSort, "sort %q is not allowed", key)
	}

	return q.Order("domains.id DESC"), nil
}

func applyFilter(q, root *gorm.DB, f types.DomainFilter) *gorm.DB {
	if f.Type != "" {
		q = q.Where("domains.type = ?", f.Type)
	}

	if f.Search != "" {
		q = q.Where("LOWER(domains.name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	if f.VerticalID != nil {
		q = q.Where("domains.vertical_id = ?", *f.VerticalID)
	}

	if f.ID != nil {
		q = q.Where("domains.id = ?", *f.ID)
	}

	if f.Status != nil {
		q = q.Where("domains.status_id = ?", *f.Status)
	}

	if len(f.Countries) > 0 {
		configurations := root.Table("domain_configuration_countries").
			Select("configuration_id").
			Where("country_id IN ?", f.Countries)
		q = q.Where("domains.configuration_id IN (?)", configurations)
	}

	return q
}
