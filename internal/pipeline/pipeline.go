// Package pipeline wires the full ETL run: schema provisioning, extraction,
// the transform stages and the dependency-ordered load.
package pipeline

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fleximart/etl-pipeline/internal/clean"
	"github.com/fleximart/etl-pipeline/internal/config"
	"github.com/fleximart/etl-pipeline/internal/extract"
	"github.com/fleximart/etl-pipeline/internal/metrics"
	"github.com/fleximart/etl-pipeline/internal/model"
	"github.com/fleximart/etl-pipeline/internal/repository"
	"github.com/fleximart/etl-pipeline/internal/schema"
)

type Pipeline struct {
	cfg config.Config
	db  *sqlx.DB
	log *zap.Logger
}

func New(cfg config.Config, db *sqlx.DB, log *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, db: db, log: log}
}

// Run executes one full batch: ensure schema, extract the three CSVs,
// transform, load. The returned counter set accounts for every input row.
func (p *Pipeline) Run(ctx context.Context) (metrics.Report, error) {
	var m metrics.Report

	if err := schema.Ensure(ctx, p.db); err != nil {
		return m, err
	}

	rawCustomers, err := extract.ReadCustomers(p.cfg.Extract.CustomersCSV)
	if err != nil {
		return m, fmt.Errorf("extract customers: %w", err)
	}
	rawProducts, err := extract.ReadProducts(p.cfg.Extract.ProductsCSV)
	if err != nil {
		return m, fmt.Errorf("extract products: %w", err)
	}
	rawSales, err := extract.ReadSales(p.cfg.Extract.SalesCSV)
	if err != nil {
		return m, fmt.Errorf("extract sales: %w", err)
	}

	customers := clean.ImputeCustomers(clean.DedupCustomers(clean.NormalizeCustomers(rawCustomers, &m), &m), &m)
	products := clean.ImputeProducts(clean.DedupProducts(clean.NormalizeProducts(rawProducts, &m), &m), &m)
	sales := clean.ImputeSales(clean.DedupSales(clean.NormalizeSales(rawSales, &m), &m), &m)

	p.log.Info("transform complete",
		zap.Int("customers", len(customers)),
		zap.Int("products", len(products)),
		zap.Int("sales", len(sales)),
	)

	loader := NewLoader(
		p.db,
		repository.NewCustomersRepository(p.db),
		repository.NewProductsRepository(p.db),
		repository.NewOrdersRepository(),
		repository.NewOrderItemsRepository(),
		p.log,
	)
	in := LoadInput{
		Customers:    toModelCustomers(customers),
		Products:     toModelProducts(products),
		Sales:        sales,
		RawCustomers: rawCustomers,
		RawProducts:  rawProducts,
	}
	if err := loader.Load(ctx, in, &m); err != nil {
		return m, err
	}

	return m, nil
}

func toModelCustomers(rows []clean.Customer) []model.Customer {
	out := make([]model.Customer, 0, len(rows))
	for _, c := range rows {
		out = append(out, model.Customer{
			FirstName:        c.FirstName,
			LastName:         c.LastName,
			Email:            c.Email,
			Phone:            c.Phone,
			City:             c.City,
			RegistrationDate: c.RegistrationDate,
		})
	}
	return out
}

func toModelProducts(rows []clean.Product) []model.Product {
	out := make([]model.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, model.Product{
			Name:          p.Name,
			Category:      p.Category,
			Price:         *p.Price,
			StockQuantity: *p.Stock,
		})
	}
	return out
}
