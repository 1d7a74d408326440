package inventory

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImportReport struct {
	Created int          `json:"created"`
	Skipped []SkippedRow `json:"skipped"`
}

type SkippedRow struct {
	Row    int    `json:"row"` // 1-based, as shown by spreadsheet tools
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type column int

const (
	colName column = iota
	colCategory
	colSize
	colColor
	colBrand
	colPurchasePrice
	colSalePrice
	colRentalPrice
	colStock
	colRentable
	colCount
)

// header aliases, compared after lowercasing and trimming
var headerAliases = map[string]column{
	"name": colName, "nom": colName, "product": colName, "produit": colName, "article": colName,
	"category": colCategory, "categorie": colCategory, "catégorie": colCategory,
	"size": colSize, "taille": colSize,
	"color": colColor, "colour": colColor, "couleur": colColor,
	"brand": colBrand, "marque": colBrand,
	"purchase_price": colPurchasePrice, "purchase price": colPurchasePrice, "prix achat": colPurchasePrice, "prix d'achat": colPurchasePrice,
	"sale_price": colSalePrice, "sale price": colSalePrice, "prix vente": colSalePrice, "prix de vente": colSalePrice,
	"rental_price": colRentalPrice, "rental price": colRentalPrice, "prix location": colRentalPrice, "prix de location": colRentalPrice,
	"stock": colStock, "quantity": colStock, "quantité": colStock, "quantite": colStock, "qty": colStock,
	"rentable": colRentable, "is_rentable": colRentable, "location": colRentable, "louable": colRentable,
}

// detectHeader maps columns from the first row when it names at least the
// product column. Without a header the fixed order of the column constants
// is assumed.
func detectHeader(row []string) (map[column]int, bool) {
	cols := map[column]int{}
	for i, cell := range row {
		if c, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell))]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	if _, ok := cols[colName]; ok {
		return cols, true
	}

	cols = map[column]int{}
	for c := colName; c < colCount; c++ {
		cols[c] = int(c)
	}
	return cols, false
}

func cell(row []string, cols map[column]int, c column) string {
	i, ok := cols[c]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "DA", "", "da", "").Replace(s)
	// "1 250,50" style decimals
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "y", "true", "oui", "o", "x":
		return true
	}
	return false
}

func parseRow(row []string, cols map[column]int) (models.Product, error) {
	p := models.Product{
		Name:     cell(row, cols, colName),
		Category: cell(row, cols, colCategory),
		Size:     cell(row, cols, colSize),
		Color:    cell(row, cols, colColor),
		Brand:    cell(row, cols, colBrand),
	}
	var err error
	if p.PurchasePrice, err = parsePrice(cell(row, cols, colPurchasePrice)); err != nil {
		return p, err
	}
	if p.SalePrice, err = parsePrice(cell(row, cols, colSalePrice)); err != nil {
		return p, err
	}
	if p.RentalPrice, err = parsePrice(cell(row, cols, colRentalPrice)); err != nil {
		return p, err
	}
	if v := cell(row, cols, colStock); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid stock %q", v)
		}
		p.Stock = n
	}
	if v := cell(row, cols, colRentable); v != "" {
		p.IsRentable = parseBool(v)
	} else {
		p.IsRentable = p.RentalPrice > 0
	}
	return p, nil
}

// ImportProducts reads the first sheet of an .xlsx workbook and creates one
// product per row. Rows naming a product that already exists with the same
// size and color are skipped, as are rows that do not parse.
func ImportProducts(ctx context.Context, db *gorm.DB, r io.Reader, actor audit.Actor, log *zap.Logger) (ImportReport, error) {
	report := ImportReport{Skipped: []SkippedRow{}}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return report, apperr.New(apperr.KindInvalidAmount, "cannot read workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return report, apperr.New(apperr.KindInvalidAmount, "workbook has no sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return report, apperr.New(apperr.KindInvalidAmount, "cannot read sheet %s: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return report, nil
	}

	cols, hasHeader := detectHeader(rows[0])
	first := 0
	if hasHeader {
		first = 1
	}

	for i := first; i < len(rows); i++ {
		row := rows[i]
		name := cell(row, cols, colName)
		if name == "" {
			continue
		}

		p, err := parseRow(row, cols)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Row: i + 1, Name: name, Reason: err.Error()})
			continue
		}

		var existing int64
		if err := db.WithContext(ctx).Model(&models.Product{}).
			Where("LOWER(name) = ? AND size = ? AND color = ?", strings.ToLower(p.Name), p.Size, p.Color).
			Count(&existing).Error; err != nil {
			return report, apperr.Store(err, "check existing product")
		}
		if existing > 0 {
			report.Skipped = append(report.Skipped, SkippedRow{Row: i + 1, Name: name, Reason: "already in catalogue"})
			continue
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&p).Error; err != nil {
				return apperr.Store(err, "create product")
			}
			return writeProductLog(tx, actor, p.ID, models.AuditActionCreate, "product "+p.Name+" imported", nil, p)
		})
		if err != nil {
			return report, err
		}
		report.Created++
	}

	log.Info("products imported",
		zap.String("sheet", sheets[0]),
		zap.Int("created", report.Created),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}
