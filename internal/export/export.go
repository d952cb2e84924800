package export

import (
	"bytes"
	"domainkeeper/internal/types"
	"encoding/csv"
	"fmt"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"strconv"
	"strings"
	"time"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	sheetName = "Domains"
)

var header = []string{
	"ID", "Name", "Type", "Status", "SSL", "Configuration", "Countries", "Vertical",
	"Webmaster", "Traffic (60d)", "Assigned at", "Expires at", "Created at",
}

// ParseFormat maps the export query value to a format, anything but csv is xlsx
func ParseFormat(value string) string {
	if strings.EqualFold(value, FormatCSV) {
		return FormatCSV
	}
	return FormatXLSX
}

// Render writes domains in format and returns the file
func Render(format string, domains []*types.Domain) (types.File, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatCSV:
		body, err = CSV(domains)
	default:
		format = FormatXLSX
		body, err = XLSX(domains)
	}
	if err != nil {
		return types.File{}, err
	}

	contentType := "text/csv"
	if format == FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return types.File{
		Content: types.NoOpReadCloser{Reader: bytes.NewReader(body)},
		Stat: types.FileStat{
			Size:        int64(len(body)),
			Name:        "domains." + format,
			ContentType: contentType,
		},
	}, nil
}

func XLSX(domains []*types.Domain) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, err
	}

	headerCells := lo.Map(header, func(item string, index int) interface{} {
		return item
	})
	if err := sw.SetRow("A1", headerCells); err != nil {
		return nil, err
	}

	for i, d := range domains {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := Row(d)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		row[0] = d.ID
		row[9] = d.TrafficLast60d
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func CSV(domains []*types.Domain) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, d := range domains {
		if err := w.Write(Row(d)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Row is the textual export line of d, in header order
func Row(d *types.Domain) []string {
	row := []string{
		strconv.FormatUint(uint64(d.ID), 10),
		d.Name,
		d.Type.String(),
		d.StatusID.String(),
		strconv.FormatBool(d.SSL),
		"", "", "", "",
		strconv.Itoa(d.TrafficLast60d),
		formatTime(d.AssignedAt),
		formatTime(d.ExpiresAt),
		d.CreatedAt.Format(time.RFC3339),
	}
	if d.Configuration != nil {
		row[5] = d.Configuration.Name
		row[6] = strings.Join(lo.Map(d.Configuration.Countries, func(item types.Country, index int) string {
			return item.Code
		}), ",")
	}
	if d.Vertical != nil {
		row[7] = d.Vertical.Name
	}
	if d.Webmaster != nil {
		row[8] = d.Webmaster.Email
	}
	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
