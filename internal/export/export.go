// Package export renders store collections as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"pharmacie/m/domain"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"ID", "CreatedAt", "FullName", "Phone", "Region", "SubRegion",
	"DeliveryMethod", "Items", "Subtotal", "DeliveryFee", "Total", "Status",
}

// OrdersWorkbook builds a single-sheet workbook with one row per order.
func OrdersWorkbook(orders []domain.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("export: add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range orderHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.FullName)
		row.AddCell().SetValue(o.Phone)
		row.AddCell().SetValue(o.Region)
		row.AddCell().SetValue(o.SubRegion)
		row.AddCell().SetValue(string(o.DeliveryMethod))
		row.AddCell().SetValue(itemsSummary(o.Items))
		row.AddCell().SetValue(o.Subtotal)
		row.AddCell().SetValue(o.DeliveryFee)
		row.AddCell().SetValue(o.Total)
		row.AddCell().SetValue(string(o.Status))
	}
	return file, nil
}

// WriteOrders streams the orders workbook to w.
func WriteOrders(w io.Writer, orders []domain.Order) error {
	file, err := OrdersWorkbook(orders)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func itemsSummary(items []domain.CartItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.Product.Name, item.Quantity))
	}
	return strings.Join(parts, "; ")
}
