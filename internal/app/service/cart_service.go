package service

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
)

// ShoppingCartFileName is the attachment name of the exported shopping list.
const ShoppingCartFileName = "shopping_cart.csv"

// CartService exposes the shopping-cart aggregation: the contents of every
// cart recipe collapsed into one purchasable line per (name, unit).
type CartService interface {
	ShoppingList(userID uint) ([]repository.CartIngredient, error)
	ExportCSV(userID uint) ([]byte, error)
	CartRecipes(userID uint) ([]model.Recipe, error)
}

type cartService struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) ShoppingList(userID uint) ([]repository.CartIngredient, error) {
	return s.cartRepo.AggregateIngredients(userID)
}

// ExportCSV renders the aggregated shopping list as a CSV document. An empty
// cart exports the header row alone. Row order follows the aggregation
// ordering, so the same cart always yields the same bytes.
func (s *cartService) ExportCSV(userID uint) ([]byte, error) {
	rows, err := s.cartRepo.AggregateIngredients(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"name", "measurement_unit", "total"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{row.Name, row.MeasurementUnit, strconv.Itoa(row.Total)}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	logger.Info("Shopping list exported", map[string]interface{}{
		"user_id": userID,
		"rows":    len(rows),
		"bytes":   buf.Len(),
	})
	return buf.Bytes(), nil
}

func (s *cartService) CartRecipes(userID uint) ([]model.Recipe, error) {
	return s.cartRepo.FindCartRecipes(userID)
}
