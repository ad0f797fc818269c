package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// OrdersCSVHeader is the first line of the order list export
var OrdersCSVHeader = []string{"ID", "Cliente", "Data", "Total", "Status"}

// WriteOrdersCSV writes the order list export
func WriteOrdersCSV(w io.Writer, orders []model.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.CustomerName,
			o.CreatedAt.Format("02/01/2006"),
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			o.Status.Label(),
		})
	}
	return WriteCSV(w, OrdersCSVHeader, rows)
}

func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX writes a single sheet workbook with a bold header row
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for r, row := range append([][]string{header}, rows...) {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
