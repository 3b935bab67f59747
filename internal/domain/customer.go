package domain

import "time"

// CustomerForm carries the raw contact and card fields submitted with an order.
// The validate tags are checked in field order; phone10, card14to16, nospace
// and notexpired are registered by the service package.
type CustomerForm struct {
	Name          string `json:"name" validate:"required,min=4,max=45"`
	Address       string `json:"address" validate:"required,min=4,max=45"`
	Phone         string `json:"phone" validate:"phone10"`
	Email         string `json:"email" validate:"required,min=4,max=45,contains=@,nospace,endsnotwith=."`
	CCNumber      string `json:"cc_number" validate:"card14to16"`
	CCExpiryMonth string `json:"cc_expiry_month" validate:"notexpired"`
	CCExpiryYear  string `json:"cc_expiry_year"`
}

type Customer struct {
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"customer_name"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	CCNumber   string    `json:"cc_number"`
	CCExpDate  time.Time `json:"cc_exp_date"`
}
