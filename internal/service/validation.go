package service

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/fjod/go_cart/bookstore-service/internal/repository"
	"github.com/go-playground/validator/v10"
)

const (
	maxQuantity     = 99
	surchargePlaces = 2
)

var (
	phoneReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	cardReplacer  = strings.NewReplacer(" ", "", "-", "")
)

type fieldRule struct {
	field   string
	message string
}

// customerRules maps a failing CustomerForm field to the error reported for it.
var customerRules = map[string]fieldRule{
	"Name":          {"name", "Invalid name field"},
	"Address":       {"address", "Invalid Address field"},
	"Phone":         {"phone", "Invalid phone field"},
	"Email":         {"email", "Invalid email field"},
	"CCNumber":      {"cc_number", "Invalid Card field"},
	"CCExpiryMonth": {"cc_expiry", "Invalid Expiry Date field"},
}

type nowKey struct{}

var customerValidator = newCustomerValidator()

func newCustomerValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return v.Var(phoneReplacer.Replace(fl.Field().String()), "len=10,number") == nil
	}))
	mustRegister(v.RegisterValidation("card14to16", func(fl validator.FieldLevel) bool {
		return v.Var(cardReplacer.Replace(fl.Field().String()), "min=14,max=16,number") == nil
	}))
	mustRegister(v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), " ")
	}))
	mustRegister(v.RegisterValidationCtx("notexpired", isExpiryValid))
	return v
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateCustomer checks the form fields in order and returns the first
// violation. now decides whether the card has expired.
func ValidateCustomer(form *domain.CustomerForm, now time.Time) *Error {
	if form == nil {
		return invalidParameter("customer_form", "Customer form is missing.")
	}

	ctx := context.WithValue(context.Background(), nowKey{}, now)
	err := customerValidator.StructCtx(ctx, form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if rule, ok := customerRules[fieldErrs[0].StructField()]; ok {
			return invalidParameter(rule.field, rule.message)
		}
	}
	return invalidParameter("customer_form", "Invalid customer form")
}

// isExpiryValid runs on the month field and reads the year next to it. A card
// stays valid through its expiry month.
func isExpiryValid(ctx context.Context, fl validator.FieldLevel) bool {
	now, ok := ctx.Value(nowKey{}).(time.Time)
	if !ok {
		now = time.Now()
	}
	year := reflect.Indirect(fl.Parent()).FieldByName("CCExpiryYear").String()

	expiry, err := ParseExpiryDate(fl.Field().String(), year)
	if err != nil {
		return false
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return !expiry.Before(current)
}

// ParseExpiryDate turns the month and year strings into the first day of that
// month, UTC.
func ParseExpiryDate(month, year string) (time.Time, error) {
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, err
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, err
	}
	if m < 1 || m > 12 {
		return time.Time{}, errors.New("expiry month out of range")
	}
	if y < 1 || y > 9999 {
		return time.Time{}, errors.New("expiry year out of range")
	}
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC), nil
}

// validateCart checks the cart against the live catalog. Catalog reads are not
// part of the order transaction.
func validateCart(ctx context.Context, books repository.BookRepository, cart *domain.ShoppingCart) (*Error, error) {
	if cart == nil || len(cart.Items) == 0 {
		return invalidParameter("cart", "Cart is empty."), nil
	}

	for _, item := range cart.Items {
		if item.Quantity < 0 || item.Quantity > maxQuantity {
			return invalidParameter("quantity", "Invalid quantity"), nil
		}
	}
	// amounts are stored with cent precision
	if !cart.Surcharge.Equal(cart.Surcharge.Round(surchargePlaces)) {
		return invalidParameter("surcharge", "Invalid surcharge"), nil
	}

	catalog := make(map[int64]*domain.Book, len(cart.Items))
	for _, item := range cart.Items {
		if _, ok := catalog[item.BookID]; ok {
			continue
		}
		book, err := books.GetBook(ctx, item.BookID)
		if errors.Is(err, repository.ErrBookNotFound) {
			return invalidParameter("book_id", "Invalid book id"), nil
		}
		if err != nil {
			return nil, err
		}
		catalog[item.BookID] = book
	}

	for _, item := range cart.Items {
		if !item.BookForm.Price.Equal(catalog[item.BookID].Price) {
			return invalidParameter("price", "Invalid price of the book"), nil
		}
	}
	for _, item := range cart.Items {
		if item.BookForm.CategoryID != catalog[item.BookID].CategoryID {
			return invalidParameter("category_id", "Invalid category of the book"), nil
		}
	}
	return nil, nil
}
