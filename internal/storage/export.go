package storage

import (
	"bytes"
	"fmt"
	"time"

	"postcraft-bot/internal/domain"

	"github.com/xuri/excelize/v2"
)

const channelsSheet = "Channels"

// ExportChannelsToExcel renders the channel list as an xlsx workbook.
func ExportChannelsToExcel(channels []domain.Channel, now time.Time) ([]byte, string, error) {
	const operation = "storage.ExportChannelsToExcel"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", channelsSheet); err != nil {
		return nil, "", fmt.Errorf("%s: failed to name sheet: %w", operation, err)
	}

	headers := []string{"#", "Channel ID", "Title"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(channelsSheet, cell, header)
	}

	for i, ch := range channels {
		row := i + 2
		f.SetCellValue(channelsSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(channelsSheet, fmt.Sprintf("B%d", row), ch.ID)
		f.SetCellValue(channelsSheet, fmt.Sprintf("C%d", row), ch.Title)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(channelsSheet, "A1", "C1", style)
	f.SetColWidth(channelsSheet, "B", "C", 30)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("%s: failed to write workbook: %w", operation, err)
	}

	filename := fmt.Sprintf("channels_%s.xlsx", now.Format("20060102_1504"))
	return buf.Bytes(), filename, nil
}
