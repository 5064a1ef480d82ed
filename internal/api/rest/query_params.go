package rest

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chainledger/ledger-indexer/internal/domain"
)

const MAX_PAGE_SIZE = 100

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) Desc() bool {
	return o == OrderDesc
}

func (o Order) Asc() bool {
	return o == OrderAsc
}

// ListBalancesQueryParams holds query parameters for GET /balances
type ListBalancesQueryParams struct {
	Chain        string `form:"chain"`
	TokenAddress string `form:"token_address"`
	Account      string `form:"account"`
	Sort         string `form:"sort,default=account"`

	Limit int   `form:"limit,default=20"`
	Skip  int   `form:"skip,default=0"`
	Order Order `form:"order,default=asc"`
}

// GetStreamBalanceQueryParams holds query parameters for GET /streams/balance
type GetStreamBalanceQueryParams struct {
	Chain    string `form:"chain"`
	StreamID string `form:"stream_id"`
	Account  string `form:"account"`
}

// ListEventsQueryParams holds query parameters for GET /events
type ListEventsQueryParams struct {
	Chain        string `form:"chain"`
	TokenAddress string `form:"token_address"`
	Account      string `form:"account"`

	FromTime   *int64  `form:"from_time"`   // Unix seconds, inclusive
	ToTime     *int64  `form:"to_time"`     // Unix seconds, exclusive
	FromHeight *uint64 `form:"from_height"` // inclusive
	ToHeight   *uint64 `form:"to_height"`   // exclusive

	Limit int   `form:"limit,default=20"`
	Skip  int   `form:"skip,default=0"`
	Order Order `form:"order,default=asc"`
}

// ListPendingQueryParams holds query parameters for GET /reconciliations/pending
type ListPendingQueryParams struct {
	Chain        string `form:"chain"`
	TokenAddress string `form:"token_address"`

	Limit int   `form:"limit,default=20"`
	Skip  int   `form:"skip,default=0"`
	Order Order `form:"order,default=asc"`
}

// ParseListBalancesQuery parses and validates query parameters for GET /balances
func ParseListBalancesQuery(c *gin.Context) (*ListBalancesQueryParams, error) {
	var params ListBalancesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := validateScope(params.Chain, params.TokenAddress); err != nil {
		return nil, err
	}
	if params.Sort != "account" && params.Sort != "amount" {
		return nil, errors.New("sort must be one of: account, amount")
	}
	params.Limit = capLimit(params.Limit)
	params.Order = normalizeOrder(params.Order)
	return &params, nil
}

// ParseGetStreamBalanceQuery parses and validates query parameters for GET /streams/balance
func ParseGetStreamBalanceQuery(c *gin.Context) (*GetStreamBalanceQueryParams, error) {
	var params GetStreamBalanceQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if !domain.IsValidChain(domain.Chain(params.Chain)) {
		return nil, errors.New("unknown chain")
	}
	if params.StreamID == "" {
		return nil, errors.New("stream_id is required")
	}
	if params.Account == "" {
		return nil, errors.New("account is required")
	}
	return &params, nil
}

// ParseListEventsQuery parses and validates query parameters for GET /events
func ParseListEventsQuery(c *gin.Context) (*ListEventsQueryParams, error) {
	var params ListEventsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := validateScope(params.Chain, params.TokenAddress); err != nil {
		return nil, err
	}
	if params.FromTime != nil && params.ToTime != nil && *params.FromTime >= *params.ToTime {
		return nil, errors.New("from_time must be before to_time")
	}
	if params.FromHeight != nil && params.ToHeight != nil && *params.FromHeight >= *params.ToHeight {
		return nil, errors.New("from_height must be before to_height")
	}
	params.Limit = capLimit(params.Limit)
	params.Order = normalizeOrder(params.Order)
	return &params, nil
}

// ParseListPendingQuery parses and validates query parameters for GET /reconciliations/pending
func ParseListPendingQuery(c *gin.Context) (*ListPendingQueryParams, error) {
	var params ListPendingQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := validateScope(params.Chain, params.TokenAddress); err != nil {
		return nil, err
	}
	params.Limit = capLimit(params.Limit)
	params.Order = normalizeOrder(params.Order)
	return &params, nil
}

// TimePtr converts an optional Unix-seconds parameter to a time pointer
func TimePtr(unixSeconds *int64) *time.Time {
	if unixSeconds == nil {
		return nil
	}
	t := time.Unix(*unixSeconds, 0).UTC()
	return &t
}

func validateScope(chain, tokenAddress string) error {
	if !domain.IsValidChain(domain.Chain(chain)) {
		return errors.New("unknown chain")
	}
	if tokenAddress == "" {
		return errors.New("token_address is required")
	}
	return nil
}

func capLimit(limit int) int {
	if limit > MAX_PAGE_SIZE {
		return MAX_PAGE_SIZE
	}
	return limit
}

func normalizeOrder(order Order) Order {
	if !order.Asc() && !order.Desc() {
		return OrderAsc
	}
	return order
}
