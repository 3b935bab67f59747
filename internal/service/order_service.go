package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/fjod/go_cart/bookstore-service/internal/repository"
	"github.com/fjod/go_cart/bookstore-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxConfirmationNumber = 100
	bookFetchConcurrency  = 8
)

// OrderEventPublisher receives an event for every committed order.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error
}

type OrderService struct {
	txBeginner repository.TxBeginner
	books      repository.BookRepository
	customers  repository.CustomerRepository
	orders     repository.OrderRepository
	lineItems  repository.LineItemRepository
	publisher  OrderEventPublisher
	logger     *zap.Logger

	now                func() time.Time
	confirmationNumber func() int
}

// NewOrderService wires the service to its stores. publisher may be nil, in
// which case no events are sent.
func NewOrderService(
	txBeginner repository.TxBeginner,
	books repository.BookRepository,
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	lineItems repository.LineItemRepository,
	publisher OrderEventPublisher,
	log *zap.Logger,
) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		txBeginner: txBeginner,
		books:      books,
		customers:  customers,
		orders:     orders,
		lineItems:  lineItems,
		publisher:  publisher,
		logger:     log,
		now:        time.Now,
		confirmationNumber: func() int {
			return rand.IntN(maxConfirmationNumber)
		},
	}
}

// PlaceOrder validates the form and cart, then writes the customer, the order
// and its line items in one transaction. It returns the new order id, or 0 and
// a *Error when no order was created.
func (s *OrderService) PlaceOrder(ctx context.Context, form *domain.CustomerForm, cart *domain.ShoppingCart) (int64, error) {
	log := logger.FromContext(ctx, s.logger)

	if verr := ValidateCustomer(form, s.now()); verr != nil {
		log.Info("order rejected", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		return 0, verr
	}
	verr, err := validateCart(ctx, s.books, cart)
	if err != nil {
		log.Error("failed to read catalog for cart validation", zap.Error(err))
		return 0, operational("Failed to validate cart")
	}
	if verr != nil {
		log.Info("order rejected", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		return 0, verr
	}

	expiry, err := ParseExpiryDate(form.CCExpiryMonth, form.CCExpiryYear)
	if err != nil {
		return 0, invalidParameter("cc_expiry", "Invalid Expiry Date field")
	}
	customer := &domain.Customer{
		Name:      form.Name,
		Address:   form.Address,
		Phone:     form.Phone,
		Email:     form.Email,
		CCNumber:  form.CCNumber,
		CCExpDate: expiry,
	}
	amount := cart.Total()
	confirmation := s.confirmationNumber()

	tx, err := s.txBeginner.BeginTx(ctx)
	if err != nil {
		log.Error("failed to begin order transaction", zap.Error(err))
		return 0, operational("Failed to start order transaction")
	}

	customerID, orderID, err := s.writeOrder(ctx, tx, customer, amount, confirmation, cart)
	if err != nil {
		log.Warn("order transaction failed, rolling back", zap.Error(err))
		// a failed Commit has already ended the transaction
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, repository.ErrTxDone) {
			log.Error("failed to roll back order transaction", zap.Error(rbErr), zap.NamedError("cause", err))
			return 0, &Error{Kind: KindRollbackFailed, Message: "Failed to roll back transaction"}
		}
		return 0, invalidParameter("", "Unknown Error Occurred.")
	}

	log.Info("order placed",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Int("confirmation_number", confirmation))

	s.publishOrderPlaced(ctx, log, orderID, customerID, amount, confirmation, cart)
	return orderID, nil
}

func (s *OrderService) writeOrder(
	ctx context.Context,
	tx repository.Tx,
	customer *domain.Customer,
	amount decimal.Decimal,
	confirmation int,
	cart *domain.ShoppingCart,
) (int64, int64, error) {
	customerID, err := s.customers.CreateCustomer(ctx, tx, customer)
	if err != nil {
		return 0, 0, fmt.Errorf("create customer: %w", err)
	}
	orderID, err := s.orders.CreateOrder(ctx, tx, amount, confirmation, customerID)
	if err != nil {
		return 0, 0, fmt.Errorf("create order: %w", err)
	}
	for _, item := range cart.Items {
		if err := s.lineItems.CreateLineItem(ctx, tx, orderID, item.BookID, item.Quantity); err != nil {
			return 0, 0, fmt.Errorf("create line item for book %d: %w", item.BookID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return customerID, orderID, nil
}

func (s *OrderService) publishOrderPlaced(
	ctx context.Context,
	log *zap.Logger,
	orderID, customerID int64,
	amount decimal.Decimal,
	confirmation int,
	cart *domain.ShoppingCart,
) {
	if s.publisher == nil {
		return
	}
	items := make([]domain.LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, domain.LineItem{OrderID: orderID, BookID: item.BookID, Quantity: item.Quantity})
	}
	event := &domain.OrderPlacedEvent{
		EventID:            uuid.New(),
		OrderID:            orderID,
		CustomerID:         customerID,
		Amount:             amount,
		ConfirmationNumber: confirmation,
		LineItems:          items,
		PlacedAt:           s.now().UTC(),
	}
	// the order is committed; a client hanging up must not drop the event
	if err := s.publisher.PublishOrderPlaced(context.WithoutCancel(ctx), event); err != nil {
		log.Warn("failed to publish order placed event",
			zap.Int64("order_id", orderID),
			zap.String("event_id", event.EventID.String()),
			zap.Error(err))
	}
}

// GetOrderDetails assembles an order with its customer, line items and the
// book of each line item.
func (s *OrderService) GetOrderDetails(ctx context.Context, orderID int64) (*domain.OrderDetails, error) {
	log := logger.FromContext(ctx, s.logger).With(zap.Int64("order_id", orderID))

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, readError(log, err, repository.ErrOrderNotFound, "Order not found")
	}

	customer, err := s.customers.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return nil, readError(log, err, repository.ErrCustomerNotFound, "Customer of the order not found")
	}

	lineItems, err := s.lineItems.ListLineItems(ctx, orderID)
	if err != nil {
		return nil, readError(log, err, nil, "")
	}

	books := make([]*domain.Book, len(lineItems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bookFetchConcurrency)
	for i, item := range lineItems {
		g.Go(func() error {
			book, err := s.books.GetBook(gctx, item.BookID)
			if err != nil {
				return fmt.Errorf("book %d: %w", item.BookID, err)
			}
			books[i] = book
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, readError(log, err, repository.ErrBookNotFound, "Book of the order not found")
	}

	return &domain.OrderDetails{
		Order:     order,
		Customer:  customer,
		LineItems: lineItems,
		Books:     books,
	}, nil
}

// readError classifies a store read failure. notFoundErr may be nil when the
// read has no not-found case.
func readError(log *zap.Logger, err, notFoundErr error, notFoundMessage string) *Error {
	if notFoundErr != nil && errors.Is(err, notFoundErr) {
		log.Info("order details lookup missed", zap.Error(err))
		return notFound(notFoundMessage)
	}
	log.Error("failed to load order details", zap.Error(err))
	return operational("Failed to load order details")
}
