package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// initialOrderStatus is the state a freshly created order lands in.
// Payments are captured inline at checkout, so orders start paid;
// deferred-confirmation flows move through the status endpoint.
const initialOrderStatus = trade.OrderStatusPaid

// SalesOrderService orchestrates the order creation workflow and the
// surrounding order operations. Tenant and user identity are always
// explicit parameters, never pulled from ambient state.
type SalesOrderService struct {
	txStore   trade.OrderTxStore
	orderRepo trade.SalesOrderRepository
	idemStore shared.IdempotencyStore
	idemCfg   shared.IdempotencyConfig
	logger    *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	txStore trade.OrderTxStore,
	orderRepo trade.SalesOrderRepository,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		txStore:   txStore,
		orderRepo: orderRepo,
		idemCfg:   shared.DefaultIdempotencyConfig(),
		logger:    logger,
	}
}

// SetIdempotencyStore enables request-key replay for order creation
func (s *SalesOrderService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idemStore = store
	s.idemCfg = cfg
}

// Create runs the order creation workflow: fetch the referenced
// products, price the lines server-side, validate stock, then commit
// the order insert and all stock decrements as one atomic transaction
// and return the persisted order.
func (s *SalesOrderService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order must contain at least one item")
	}

	if replayed, err := s.replayIfSeen(ctx, tenantID, req.RequestID); replayed != nil || err != nil {
		return replayed, err
	}

	lines := aggregateLines(req.Items)

	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}

	products, err := s.txStore.FetchProducts(ctx, productIDs)
	if err != nil {
		s.logger.Error("product fetch failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, shared.ErrInternal
	}

	// Ownership check before anything else touches the products. A
	// product from another tenant is a distinct failure from a missing
	// one, even though clients see both as not found.
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || product.IsDeleted() {
			return nil, &trade.ProductNotFoundError{ProductID: line.ProductID}
		}
		if product.TenantID != tenantID {
			s.logger.Warn("cross-tenant product reference in order request",
				zap.String("tenant_id", tenantID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.String("owner_tenant_id", product.TenantID.String()))
			return nil, &trade.CrossTenantError{ProductID: line.ProductID}
		}
	}

	totalAmount, err := trade.ComputeTotal(lines, products)
	if err != nil {
		return nil, err
	}

	if err := trade.ValidateStock(lines, products); err != nil {
		return nil, err
	}

	orderNumber := trade.GenerateOrderNumber()

	items := make([]trade.SalesOrderItem, 0, len(lines))
	for _, line := range lines {
		product := products[line.ProductID]
		items = append(items, trade.SalesOrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       line.Quantity,
			UnitPrice:      product.EffectivePrice(),
			ListPrice:      product.Price,
			OfferPrice:     product.OfferPrice,
			IsSubscription: line.IsSubscription || product.IsSubscription,
		})
	}

	payments := make([]trade.OrderPayment, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, trade.OrderPayment{
			Amount: p.Amount,
			Method: trade.PaymentMethodType(p.Method),
		})
	}

	order, err := trade.NewSalesOrder(tenantID, userID, orderNumber, req.CustomerID, initialOrderStatus, items, payments)
	if err != nil {
		return nil, err
	}

	if !order.TotalAmount.Equal(totalAmount) {
		// Both derive from the same catalog snapshot, so a mismatch
		// means a programming error upstream.
		return nil, shared.NewDomainError("PRICING_MISMATCH", "Computed totals disagree")
	}

	if order.PaymentTotal().LessThan(order.TotalAmount) {
		s.logger.Warn("captured payments do not cover order total",
			zap.String("order_number", orderNumber),
			zap.String("total", order.TotalAmount.String()),
			zap.String("paid", order.PaymentTotal().String()))
	}

	ops := make([]trade.TxOp, 0, len(lines)+1)
	ops = append(ops, s.txStore.InsertOrderOp(order))
	for _, line := range lines {
		product := products[line.ProductID]
		if !product.RequireStock {
			continue
		}
		ops = append(ops, s.txStore.DecrementStockOp(product.ID, tenantID, line.Quantity))
	}

	if err := s.txStore.Commit(ctx, ops); err != nil {
		// A stock condition failing at commit time means a concurrent
		// order won the race; that classification survives. Anything
		// else is opaque infrastructure failure.
		if errors.Is(err, shared.ErrInsufficientStock) {
			return nil, err
		}
		commitErr := &trade.OrderCommitError{Cause: err}
		s.logger.Error("order commit failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return nil, commitErr
	}

	s.rememberRequest(ctx, tenantID, req.RequestID, order.ID)

	persisted, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, order.ID)
	if err != nil {
		s.logger.Error("order read-back failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, err
	}

	response := ToSalesOrderResponse(persisted)
	return &response, nil
}

// replayIfSeen returns the already-created order when the request key
// is known. Unknown or empty keys return (nil, nil).
func (s *SalesOrderService) replayIfSeen(ctx context.Context, tenantID uuid.UUID, requestID string) (*SalesOrderResponse, error) {
	if requestID == "" || s.idemStore == nil || !s.idemCfg.Enabled {
		return nil, nil
	}

	orderID, found, err := s.idemStore.Lookup(ctx, idempotencyKey(tenantID, requestID))
	if err != nil {
		// A broken idempotency store must not block order creation.
		s.logger.Warn("idempotency lookup failed", zap.Error(err))
		return nil, nil
	}
	if !found {
		return nil, nil
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("replayed order creation from request key",
		zap.String("order_id", orderID.String()))
	response := ToSalesOrderResponse(order)
	return &response, nil
}

func (s *SalesOrderService) rememberRequest(ctx context.Context, tenantID uuid.UUID, requestID string, orderID uuid.UUID) {
	if requestID == "" || s.idemStore == nil || !s.idemCfg.Enabled {
		return
	}
	if _, err := s.idemStore.Remember(ctx, idempotencyKey(tenantID, requestID), orderID, s.idemCfg.TTL); err != nil {
		s.logger.Warn("idempotency record failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}
}

func idempotencyKey(tenantID uuid.UUID, requestID string) string {
	return fmt.Sprintf("order:%s:%s", tenantID, requestID)
}

// aggregateLines merges duplicate product references so validation and
// decrement see one quantity per product.
func aggregateLines(items []CreateSalesOrderItemInput) []trade.RequestedLine {
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]trade.RequestedLine, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			lines[i].IsSubscription = lines[i].IsSubscription || item.IsSubscription
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, trade.RequestedLine{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			IsSubscription: item.IsSubscription,
		})
	}
	return lines
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a sales order by its order number
func (s *SalesOrderService) GetByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *SalesOrderService) List(ctx context.Context, tenantID uuid.UUID, filter SalesOrderListFilter) ([]SalesOrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSalesOrderListItemResponses(orders), total, nil
}

// UpdateStatus transitions an order along the status machine
func (s *SalesOrderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderStatusRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Delete removes a sales order. This bypasses the creation workflow
// and does not restore stock.
func (s *SalesOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	if _, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID); err != nil {
		return err
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}
