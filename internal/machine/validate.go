package machine

import (
	"unicode/utf8"

	"github.com/vendio/machine-api/internal/config"
)

// validateCode checks the slot-code grammar: one uppercase row letter within
// the configured row range followed by one non-zero column digit within the
// configured per-row slot count.
func (s *Service) validateCode(code string) error {
	if len(code) != 2 {
		return validationErrorf("code must be exactly 2 characters")
	}
	maxRow := byte('A' + s.cfg.NumRows - 1)
	if code[0] < 'A' || code[0] > maxRow {
		return validationErrorf("code must start with an uppercase letter between A and %c i.e. 'A2'", maxRow)
	}
	maxCol := byte('0' + s.cfg.SlotsPerRow)
	if code[1] < '1' || code[1] > maxCol {
		return validationErrorf("code must end with a digit between 1 and %d i.e. 'B9'", s.cfg.SlotsPerRow)
	}
	return nil
}

func validateProductName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < config.MinProductNameLen || n > config.MaxProductNameLen {
		return validationErrorf("name must be between %d and %d characters", config.MinProductNameLen, config.MaxProductNameLen)
	}
	return nil
}

func validateProductPrice(price int64) error {
	if price <= 0 {
		return validationErrorf("price must be greater than 0")
	}
	return nil
}

// productMustExist resolves a product reference before it is stored on a slot.
func (s *Service) productMustExist(productID int64) error {
	if _, err := s.st.Product(productID); err != nil {
		return validationErrorf("Product with ID %d does not exist", productID)
	}
	return nil
}
