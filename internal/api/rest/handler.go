package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/query"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// ListBalances retrieves current-balance records for a token
	// GET /api/v1/balances?chain=<chain>&token_address=<address>&account=<account>&sort=<account|amount>&limit=<limit>&skip=<skip>&order=<asc|desc>
	ListBalances(c *gin.Context)

	// GetStreamBalance retrieves the derived real-time balance for a stream
	// GET /api/v1/streams/balance?chain=<chain>&stream_id=<id>&account=<account>
	GetStreamBalance(c *gin.Context)

	// ListEvents retrieves ledger events in deterministic order
	// GET /api/v1/events?chain=<chain>&token_address=<address>&account=<account>&from_time=<unix>&to_time=<unix>&from_height=<h>&to_height=<h>&limit=<limit>&skip=<skip>&order=<asc|desc>
	ListEvents(c *gin.Context)

	// ListPendingReconciliations retrieves unresolved reconciliation items
	// GET /api/v1/reconciliations/pending?chain=<chain>&token_address=<address>&limit=<limit>&skip=<skip>&order=<asc|desc>
	ListPendingReconciliations(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	queries query.Service
}

// NewHandler creates a new REST API handler
func NewHandler(queries query.Service) Handler {
	return &handler{
		queries: queries,
	}
}

// ListBalances retrieves current-balance records for a token
func (h *handler) ListBalances(c *gin.Context) {
	params, err := ParseListBalancesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	req := query.BalancesRequest{
		Chain:         domain.Chain(params.Chain),
		TokenAddress:  params.TokenAddress,
		OrderByAmount: params.Sort == "amount",
		Limit:         params.Limit,
		Skip:          params.Skip,
		Reverse:       params.Order.Desc(),
	}
	if params.Account != "" {
		req.Account = &params.Account
	}

	balances, err := h.queries.ListBalances(c.Request.Context(), req)
	if err != nil {
		respondInternalError(c, err, "Failed to list balances",
			zap.String("chain", params.Chain),
			zap.String("token_address", params.TokenAddress),
		)
		return
	}

	items := make([]BalanceDTO, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceDTO(b))
	}
	c.JSON(http.StatusOK, ListResponse[BalanceDTO]{Items: items, Count: len(items)})
}

// GetStreamBalance retrieves the derived real-time balance for a stream
func (h *handler) GetStreamBalance(c *gin.Context) {
	params, err := ParseGetStreamBalanceQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	view, err := h.queries.GetStreamBalance(c.Request.Context(), domain.StreamKey{
		Chain:    domain.Chain(params.Chain),
		StreamID: params.StreamID,
		Account:  params.Account,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to get stream balance",
			zap.String("stream_id", params.StreamID),
		)
		return
	}
	if view == nil {
		respondNotFound(c, "No stream balance for the given key")
		return
	}

	c.JSON(http.StatusOK, toStreamBalanceDTO(view))
}

// ListEvents retrieves ledger events in deterministic order
func (h *handler) ListEvents(c *gin.Context) {
	params, err := ParseListEventsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	req := query.EventsRequest{
		Chain:        domain.Chain(params.Chain),
		TokenAddress: params.TokenAddress,
		FromTime:     TimePtr(params.FromTime),
		ToTime:       TimePtr(params.ToTime),
		FromHeight:   params.FromHeight,
		ToHeight:     params.ToHeight,
		Limit:        params.Limit,
		Skip:         params.Skip,
		Reverse:      params.Order.Desc(),
	}
	if params.Account != "" {
		req.Account = &params.Account
	}

	events, err := h.queries.ListEvents(c.Request.Context(), req)
	if err != nil {
		respondInternalError(c, err, "Failed to list events",
			zap.String("chain", params.Chain),
			zap.String("token_address", params.TokenAddress),
		)
		return
	}

	items := make([]EventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, toEventDTO(e))
	}
	c.JSON(http.StatusOK, ListResponse[EventDTO]{Items: items, Count: len(items)})
}

// ListPendingReconciliations retrieves unresolved reconciliation items
func (h *handler) ListPendingReconciliations(c *gin.Context) {
	params, err := ParseListPendingQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	pending, err := h.queries.ListPendingReconciliations(c.Request.Context(), query.PendingRequest{
		Chain:        domain.Chain(params.Chain),
		TokenAddress: params.TokenAddress,
		Limit:        params.Limit,
		Skip:         params.Skip,
		Reverse:      params.Order.Desc(),
	})
	if err != nil {
		respondInternalError(c, err, "Failed to list pending reconciliations",
			zap.String("chain", params.Chain),
			zap.String("token_address", params.TokenAddress),
		)
		return
	}

	items := make([]PendingReconciliationDTO, 0, len(pending))
	for _, p := range pending {
		items = append(items, toPendingDTO(p))
	}
	c.JSON(http.StatusOK, ListResponse[PendingReconciliationDTO]{Items: items, Count: len(items)})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
