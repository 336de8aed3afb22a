// Package seed provides the built-in data sets the store falls back to when
// storage holds nothing for a collection.
package seed

import (
	"embed"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
)

//go:embed data/*.csv
var files embed.FS

// Regions returns the 58 wilayas in code order.
func Regions() []domain.Region {
	var regions []domain.Region
	readCSV("data/regions.csv", 2, func(record []string) {
		code := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		if code == "" || name == "" {
			return
		}
		regions = append(regions, domain.Region{Code: code, Name: name})
	})
	return regions
}

// Products returns the starter catalog, stamped with createdAt.
func Products(createdAt time.Time) []domain.Product {
	var products []domain.Product
	readCSV("data/products.csv", 6, func(record []string) {
		price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			log.Warn().Str("product", record[1]).Msg("seed: skipping product with invalid price")
			return
		}
		category := domain.Category(strings.TrimSpace(record[2]))
		if !category.Valid() {
			log.Warn().Str("product", record[1]).Msg("seed: skipping product with unknown category")
			return
		}
		products = append(products, domain.Product{
			ID:          strings.TrimSpace(record[0]),
			Name:        strings.TrimSpace(record[1]),
			Category:    category,
			Price:       price,
			Image:       strings.TrimSpace(record[4]),
			Description: strings.TrimSpace(record[5]),
			CreatedAt:   createdAt,
		})
	})
	return products
}

func readCSV(name string, columns int, row func(record []string)) {
	file, err := files.Open(name)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("seed: unable to open catalog")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Error().Err(err).Str("file", name).Msg("seed: unable to read header")
		return
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("seed: unable to read row")
			continue
		}
		if len(record) < columns {
			continue
		}
		row(record)
	}
}
