package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/evoapps/confeitaria-backend/config"
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/db"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// catalogRow is one product line of the import sheet
type catalogRow struct {
	Line        int
	Name        string
	Category    string
	Price       float64
	Description string
}

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <store_id>")
	}

	filePath := os.Args[1]
	storeID, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil || storeID == 0 {
		log.Fatalf("Invalid store id %q", os.Args[2])
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	store, err := repository.NewStoreRepository(db.GetDB()).FindByID(uint(storeID))
	if err != nil {
		log.Fatalf("Store %d not found: %v", storeID, err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Importing %d products into %s (skipped %d rows)\n", len(rows), store.Name, skipped)

	categories, products, err := importCatalog(
		repository.NewCategoryRepository(db.GetDB()),
		repository.NewProductRepository(db.GetDB()),
		store.ID,
		rows,
	)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Categories created: %d\n", categories)
	fmt.Printf("  Products created: %d\n", products)
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	catalog, skipped := parseCatalogRows(rows)
	return catalog, skipped, nil
}

// parseCatalogRows reads name, category, price, description columns. A first
// row whose price column is not a number is treated as the header.
func parseCatalogRows(rows [][]string) ([]catalogRow, int) {
	var catalog []catalogRow
	skipped := 0

	for i, row := range rows {
		cells := make([]string, 4)
		for j := 0; j < len(cells) && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}

		price, err := parsePrice(cells[2])
		if i == 0 && err != nil {
			continue
		}
		if cells[0] == "" || err != nil || price <= 0 {
			skipped++
			continue
		}

		catalog = append(catalog, catalogRow{
			Line:        i + 1,
			Name:        cells[0],
			Category:    cells[1],
			Price:       price,
			Description: cells[3],
		})
	}
	return catalog, skipped
}

// parsePrice accepts "12.5", "12,50" and "R$ 1.234,56"
func parsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return util.RoundCents(v), nil
}

// importCatalog creates missing categories by name and inserts every product
func importCatalog(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	storeID uint,
	rows []catalogRow,
) (int, int, error) {
	categoryIDs := make(map[string]uint)
	createdCategories := 0
	createdProducts := 0

	for _, row := range rows {
		var categoryID *uint
		if row.Category != "" {
			key := strings.ToLower(row.Category)
			id, ok := categoryIDs[key]
			if !ok {
				existing, err := categoryRepo.FindByName(storeID, row.Category)
				switch {
				case err == nil:
					id = existing.ID
				case errors.Is(err, gorm.ErrRecordNotFound):
					category := &model.Category{StoreID: storeID, Name: row.Category}
					if err := categoryRepo.Create(category); err != nil {
						return createdCategories, createdProducts, fmt.Errorf("line %d: create category: %w", row.Line, err)
					}
					id = category.ID
					createdCategories++
				default:
					return createdCategories, createdProducts, fmt.Errorf("line %d: find category: %w", row.Line, err)
				}
				categoryIDs[key] = id
			}
			categoryID = &id
		}

		product := &model.Product{
			StoreID:     storeID,
			CategoryID:  categoryID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Active:      true,
		}
		if err := productRepo.Create(product); err != nil {
			return createdCategories, createdProducts, fmt.Errorf("line %d: create product: %w", row.Line, err)
		}
		createdProducts++
	}

	return createdCategories, createdProducts, nil
}
