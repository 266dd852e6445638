package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/foodgram-team/foodgram-backend/config"
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/foodgram-team/foodgram-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// dataio bulk-imports and exports reference data (tags and ingredients).
// The file format is picked from the extension: .csv, .json or .xlsx.
//
// Usage:
//   go run cmd/dataio/main.go import tags tags.csv
//   go run cmd/dataio/main.go import ingredients ingredients.json
//   go run cmd/dataio/main.go export ingredients ingredients.xlsx

var tagHeader = []string{"id", "name", "color", "slug"}
var ingredientHeader = []string{"id", "name", "measurement_unit"}

func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: go run cmd/dataio/main.go <import|export> <tags|ingredients> <file>")
	}

	command := os.Args[1]
	entity := os.Args[2]
	filePath := os.Args[3]

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

	switch {
	case command == "import" && entity == "tags":
		err = importTags(filePath)
	case command == "import" && entity == "ingredients":
		err = importIngredients(filePath)
	case command == "export" && entity == "tags":
		err = exportTags(filePath)
	case command == "export" && entity == "ingredients":
		err = exportIngredients(filePath)
	default:
		log.Fatalf("Unknown command %q for entity %q", command, entity)
	}
	if err != nil {
		log.Fatal("Operation failed: ", err)
	}

	fmt.Println("Done.")
}

func importTags(filePath string) error {
	rows, err := readRows(filePath)
	if err != nil {
		return err
	}

	tagRepo := repository.NewTagRepository(db.GetDB())
	imported := 0
	skipped := 0
	for i, row := range rows {
		if i == 0 && isHeaderRow(row, tagHeader) {
			continue
		}
		// With the id column: id,name,color,slug; without: name,color,slug
		fields := row
		if len(fields) == len(tagHeader) {
			fields = fields[1:]
		}
		if len(fields) < 3 {
			skipped++
			continue
		}

		color, err := util.ParseColor(strings.TrimSpace(fields[1]))
		if err != nil {
			fmt.Printf("Row %d: invalid color %q, skipping\n", i+1, fields[1])
			skipped++
			continue
		}

		tag := &model.Tag{
			Name:  strings.TrimSpace(fields[0]),
			Color: color,
			Slug:  strings.TrimSpace(fields[2]),
		}
		if tag.Name == "" || tag.Slug == "" {
			skipped++
			continue
		}
		if err := tagRepo.Create(tag); err != nil {
			fmt.Printf("Row %d: %v, skipping\n", i+1, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Printf("Tags imported: %d, skipped: %d\n", imported, skipped)
	return nil
}

func importIngredients(filePath string) error {
	rows, err := readRows(filePath)
	if err != nil {
		return err
	}

	ingredientRepo := repository.NewIngredientRepository(db.GetDB())
	imported := 0
	skipped := 0
	for i, row := range rows {
		if i == 0 && isHeaderRow(row, ingredientHeader) {
			continue
		}
		fields := row
		if len(fields) == len(ingredientHeader) {
			fields = fields[1:]
		}
		if len(fields) < 2 {
			skipped++
			continue
		}

		ingredient := &model.Ingredient{
			Name:            strings.TrimSpace(fields[0]),
			MeasurementUnit: strings.TrimSpace(fields[1]),
		}
		if ingredient.Name == "" || ingredient.MeasurementUnit == "" {
			skipped++
			continue
		}
		if err := ingredientRepo.Create(ingredient); err != nil {
			fmt.Printf("Row %d: %v, skipping\n", i+1, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Printf("Ingredients imported: %d, skipped: %d\n", imported, skipped)
	return nil
}

func exportTags(filePath string) error {
	tags, err := repository.NewTagRepository(db.GetDB()).FindAll()
	if err != nil {
		return err
	}

	rows := [][]string{tagHeader}
	for _, tag := range tags {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(tag.ID), 10),
			tag.Name,
			util.FormatColor(tag.Color),
			tag.Slug,
		})
	}

	fmt.Printf("Exporting %d tags to %s\n", len(tags), filePath)
	return writeRows(filePath, rows)
}

func exportIngredients(filePath string) error {
	ingredients, err := repository.NewIngredientRepository(db.GetDB()).FindAll("")
	if err != nil {
		return err
	}

	rows := [][]string{ingredientHeader}
	for _, ingredient := range ingredients {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(ingredient.ID), 10),
			ingredient.Name,
			ingredient.MeasurementUnit,
		})
	}

	fmt.Printf("Exporting %d ingredients to %s\n", len(ingredients), filePath)
	return writeRows(filePath, rows)
}

// readRows loads a csv, json or xlsx file into string rows. JSON files hold
// an array of objects; keys follow the export headers.
func readRows(filePath string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return readCSV(filePath)
	case ".json":
		return readJSON(filePath)
	case ".xlsx":
		return readXLSX(filePath)
	}
	return nil, fmt.Errorf("unsupported file extension: %s", filePath)
}

func writeRows(filePath string, rows [][]string) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return writeCSV(filePath, rows)
	case ".json":
		return writeJSON(filePath, rows)
	case ".xlsx":
		return writeXLSX(filePath, rows)
	}
	return fmt.Errorf("unsupported file extension: %s", filePath)
}

func readCSV(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func writeCSV(filePath string, rows [][]string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func readJSON(filePath string) ([][]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var objects []map[string]interface{}
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var rows [][]string
	for _, obj := range objects {
		header := ingredientHeader
		if _, isTag := obj["slug"]; isTag {
			header = tagHeader
		}
		row := make([]string, 0, len(header)-1)
		// The id column is assigned by the database on import
		for _, key := range header[1:] {
			row = append(row, jsonFieldString(obj[key]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeJSON(filePath string, rows [][]string) error {
	if len(rows) == 0 {
		return os.WriteFile(filePath, []byte("[]\n"), 0o644)
	}

	header := rows[0]
	objects := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		obj := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				obj[key] = row[i]
			}
		}
		objects = append(objects, obj)
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, append(data, '\n'), 0o644)
}

func readXLSX(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	return f.GetRows(sheetName)
}

func writeXLSX(filePath string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(filePath)
}

func isHeaderRow(row, header []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == header[0] || first == header[1]
}

func jsonFieldString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
