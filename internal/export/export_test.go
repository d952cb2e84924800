package export

import (
	"bytes"
	"domainkeeper/internal/types"
	"encoding/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"io"
	"testing"
	"time"
)

func sampleDomains() []*types.Domain {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []*types.Domain{
		{
			ID:             1,
			Name:           "alpha.com",
			Type:           types.DomainTypePrimary,
			StatusID:       types.DomainStatusActive,
			SSL:            true,
			TrafficLast60d: 1200,
			CreatedAt:      created,
			Configuration: &types.DomainConfiguration{
				Name:      "eu-ssl",
				Countries: []types.Country{{Code: "DE"}, {Code: "AT"}},
			},
			Vertical:  &types.CampaignVertical{Name: "Finance"},
			Webmaster: &types.User{Email: "webmaster@example.com"},
		},
		{ID: 2, Name: "beta.fr", Type: types.DomainTypeLanding, StatusID: types.DomainStatusDisabled, CreatedAt: created},
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, ParseFormat("csv"))
	assert.Equal(t, FormatCSV, ParseFormat("CSV"))
	assert.Equal(t, FormatXLSX, ParseFormat("xlsx"))
	assert.Equal(t, FormatXLSX, ParseFormat("1"))
	assert.Equal(t, FormatXLSX, ParseFormat(""))
}

func TestCSV(t *testing.T) {
	f, err := Render(FormatCSV, sampleDomains())
	require.NoError(t, err)
	assert.Equal(t, "domains.csv", f.Stat.Name)
	assert.Equal(t, "text/csv", f.Stat.ContentType)

	body, err := io.ReadAll(f.Content)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"1", "alpha.com", "primary", "active", "true", "eu-ssl", "DE,AT", "Finance",
		"webmaster@example.com", "1200", "", "", "2024-05-01T10:00:00Z"}, records[1])
	assert.Equal(t, "beta.fr", records[2][1])
	assert.Equal(t, "", records[2][5])
}

func TestXLSX(t *testing.T) {
	f, err := Render(FormatXLSX, sampleDomains())
	require.NoError(t, err)
	assert.Equal(t, "domains.xlsx", f.Stat.Name)

	book, err := excelize.OpenReader(f.Content)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "alpha.com", rows[1][1])
	assert.Equal(t, "1200", rows[1][9])
	assert.Equal(t, "beta.fr", rows[2][1])
}
