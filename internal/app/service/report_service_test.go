package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		query    ReportQuery
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{name: "Today", query: ReportQuery{Range: RangeToday}, wantFrom: day(14), wantTo: day(15)},
		{name: "Default is today", query: ReportQuery{}, wantFrom: day(14), wantTo: day(15)},
		{name: "Yesterday", query: ReportQuery{Range: RangeYesterday}, wantFrom: day(13), wantTo: day(14)},
		{name: "Week", query: ReportQuery{Range: RangeWeek}, wantFrom: day(7), wantTo: now},
		{name: "Month", query: ReportQuery{Range: RangeMonth}, wantFrom: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), wantTo: now},
		{name: "Custom end is inclusive", query: ReportQuery{Range: RangeCustom, Start: "2026-10-01", End: "2026-10-05"}, wantFrom: day(1), wantTo: day(6)},
		{name: "Custom reversed", query: ReportQuery{Range: RangeCustom, Start: "2026-10-05", End: "2026-10-01"}, wantErr: true},
		{name: "Custom bad date", query: ReportQuery{Range: RangeCustom, Start: "ontem", End: "2026-10-01"}, wantErr: true},
		{name: "Unknown range", query: ReportQuery{Range: "year"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := resolveRange(now, tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestReportService_Build(t *testing.T) {
	env := setupTestEnv(t)
	bolos := &model.Category{StoreID: env.store.ID, Name: "Bolos"}
	require.NoError(t, env.cats.Create(bolos))
	cake := env.createProduct(t, "Bolo", 50, &bolos.ID)
	cupcake := env.createProduct(t, "Cupcake", 8, &bolos.ID)
	coffee := env.createProduct(t, "Café", 5, nil)

	_, err := env.orderSvc.Create(env.store.ID, env.employee.ID, OrderInput{
		CustomerName: "Joana",
		Items:        []OrderItemInput{{ProductID: cake.ID, Quantity: 1}, {ProductID: coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = env.orderSvc.Create(env.store.ID, env.employee.ID, OrderInput{
		CustomerName: "Pedro",
		Items:        []OrderItemInput{{ProductID: cupcake.ID, Quantity: 5}},
	})
	require.NoError(t, err)
	cancelled, err := env.orderSvc.Create(env.store.ID, env.employee.ID, OrderInput{
		CustomerName: "Ana",
		Items:        []OrderItemInput{{ProductID: cake.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = env.orderSvc.UpdateStatus(env.store.ID, env.manager.ID, cancelled.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	svc := NewReportService(env.orders, env.products, env.cats)

	t.Run("Sales", func(t *testing.T) {
		report, err := svc.Build(env.store.ID, ReportQuery{Type: ReportSales, Range: RangeToday})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Summary.OrderCount)
		assert.Equal(t, 100.0, report.Summary.TotalAmount)
		assert.Equal(t, 50.0, report.Summary.AverageTicket)
		assert.Equal(t, 2, report.StatusCounts[model.OrderStatusPending])
		assert.Equal(t, 1, report.StatusCounts[model.OrderStatusCancelled])
		assert.Len(t, report.Sales, 3)

		header, rows := report.Table()
		assert.Equal(t, []string{"Data", "Pedido", "Cliente", "Status", "Valor"}, header)
		require.Len(t, rows, 3)
		assert.Equal(t, "Cancelado", rows[0][3])
	})

	t.Run("Products", func(t *testing.T) {
		report, err := svc.Build(env.store.ID, ReportQuery{Type: ReportProducts})
		require.NoError(t, err)
		require.Len(t, report.Items, 3)
		assert.Equal(t, ItemRow{Name: "Cupcake", Quantity: 5, Total: 40, AveragePrice: 8}, report.Items[0])
		assert.Equal(t, ItemRow{Name: "Café", Quantity: 2, Total: 10, AveragePrice: 5}, report.Items[1])
		assert.Equal(t, ItemRow{Name: "Bolo", Quantity: 1, Total: 50, AveragePrice: 50}, report.Items[2])
	})

	t.Run("Categories", func(t *testing.T) {
		report, err := svc.Build(env.store.ID, ReportQuery{Type: ReportCategories})
		require.NoError(t, err)
		require.Len(t, report.Items, 2)
		assert.Equal(t, "Bolos", report.Items[0].Name)
		assert.Equal(t, int64(6), report.Items[0].Quantity)
		assert.Equal(t, 90.0, report.Items[0].Total)
		assert.Equal(t, uncategorized, report.Items[1].Name)

		header, _ := report.Table()
		assert.Equal(t, "Categoria", header[0])
	})

	t.Run("Yesterday is empty", func(t *testing.T) {
		report, err := svc.Build(env.store.ID, ReportQuery{Type: ReportSales, Range: RangeYesterday})
		require.NoError(t, err)
		assert.Zero(t, report.Summary.OrderCount)
		assert.Zero(t, report.Summary.AverageTicket)
		assert.Empty(t, report.Sales)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := svc.Build(env.store.ID, ReportQuery{Type: "stock"})
		assert.ErrorIs(t, err, ErrUnknownReport)
	})

}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"Produto", "Quantidade"}
	rows := [][]string{{"Bolo", "3"}, {"Café", "2"}}
	require.NoError(t, WriteXLSX(&buf, "Produtos", header, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Produtos")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Produto", "Quantidade"}, {"Bolo", "3"}, {"Café", "2"}}, got)
}
