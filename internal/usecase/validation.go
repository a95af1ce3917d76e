package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
)

const (
	maxCodeLength   = 64
	maxReasonLength = 500
)

// ValidateCode checks SKC, shop, waybill and carrier identifiers: non-empty,
// bounded and free of whitespace or control characters.
func ValidateCode(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", domainErrors.ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(value) > maxCodeLength {
		return fmt.Errorf("%w: %s exceeds %d characters", domainErrors.ErrInvalidInput, field, maxCodeLength)
	}
	for _, r := range value {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %s contains whitespace", domainErrors.ErrInvalidInput, field)
		}
	}
	return nil
}

// ValidateNewOrder normalises and checks seeding input.
func ValidateNewOrder(input model.NewOrder) (model.NewOrder, error) {
	input.SKC = strings.TrimSpace(input.SKC)
	input.ShopRef = strings.TrimSpace(input.ShopRef)
	if err := ValidateCode("skc", input.SKC); err != nil {
		return input, err
	}
	if err := ValidateCode("shop", input.ShopRef); err != nil {
		return input, err
	}
	if input.PlanQuantity <= 0 {
		return input, fmt.Errorf("%w: plan quantity must be positive, got %d", domainErrors.ErrInvalidQuantity, input.PlanQuantity)
	}
	return input, nil
}

// cleanReason trims a justification; whitespace-only counts as missing.
func cleanReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return "", fmt.Errorf("%w: reason exceeds %d characters", domainErrors.ErrInvalidInput, maxReasonLength)
	}
	return reason, nil
}
