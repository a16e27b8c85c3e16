package pricing

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
)

// ErrInvalidItem is returned when an item fails validation.
var ErrInvalidItem = errors.New("invalid item")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator used for items.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate rejects items with an empty name, negative price inputs or a price
// above MaxAmount. Zero prices and weights are valid.
func Validate(p Priceable) error {
	if p == nil {
		return fmt.Errorf("%w: nil item", ErrInvalidItem)
	}
	if strings.TrimSpace(p.Name()) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	switch item := p.(type) {
	case FixedPriceItem:
		if err := Validator().Struct(item); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidItem, describe(err))
		}
	case WeighedItem:
		if err := Validator().Struct(item); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidItem, describe(err))
		}
		raw := float64(item.RatePerUnit) * item.Weight
		if math.IsNaN(raw) || math.IsInf(raw, 0) || raw > float64(MaxAmount) {
			return fmt.Errorf("%w: rate times weight out of range", ErrInvalidItem)
		}
	case *FixedPriceItem:
		return Validate(*item)
	case *WeighedItem:
		return Validate(*item)
	}
	if price := p.Price(); price < 0 || price > MaxAmount {
		return fmt.Errorf("%w: price out of range", ErrInvalidItem)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
