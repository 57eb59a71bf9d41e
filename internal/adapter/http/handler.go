package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/allocq/internal/app"
	"github.com/neomorfeo/allocq/internal/domain"
)

const (
	timestampFormat = "2006-01-02T15:04:05Z"
	dateFormat      = "2006-01-02"
)

// OfferResponse is the API representation of a share offering.
type OfferResponse struct {
	ID              string  `json:"id" doc:"Unique identifier"`
	CompanyName     string  `json:"company_name" doc:"Issuing company"`
	Ticker          string  `json:"ticker" doc:"Planned ticker symbol"`
	Description     string  `json:"description,omitempty" doc:"Company description"`
	Sector          string  `json:"sector" doc:"Industry sector"`
	PricePerShare   float64 `json:"price_per_share" doc:"Fixed pre-IPO price"`
	TotalShares     int     `json:"total_shares" doc:"Full allocation pool size"`
	AvailableShares int     `json:"available_shares" doc:"Shares still purchasable"`
	IPODate         string  `json:"ipo_date" doc:"Planned IPO date (YYYY-MM-DD)"`
	Status          string  `json:"status" doc:"open or closed"`
	CreatedAt       string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toOfferResponse(o domain.Offer) OfferResponse {
	return OfferResponse{
		ID:              o.ID,
		CompanyName:     o.CompanyName,
		Ticker:          o.Ticker,
		Description:     o.Description,
		Sector:          o.Sector,
		PricePerShare:   o.PricePerShare,
		TotalShares:     o.TotalShares,
		AvailableShares: o.AvailableShares,
		IPODate:         o.IPODate.Format(dateFormat),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.Format(timestampFormat),
	}
}

// OrderResponse is the API representation of a purchase order.
type OrderResponse struct {
	ID              string  `json:"id" doc:"Unique identifier"`
	OfferID         string  `json:"offer_id" doc:"Offer this order purchases from"`
	SharesRequested int     `json:"shares_requested" doc:"Shares reserved by this order"`
	TotalCost       float64 `json:"total_cost" doc:"Cost locked in at creation"`
	Stage           string  `json:"stage" doc:"Current pipeline stage"`
	StageLabel      string  `json:"stage_label" doc:"Human-readable stage name"`
	CreatedAt       string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt       string  `json:"updated_at" doc:"Last stage change timestamp (ISO 8601)"`
}

func toOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		OfferID:         o.OfferID,
		SharesRequested: o.SharesRequested,
		TotalCost:       o.TotalCost,
		Stage:           string(o.Stage),
		StageLabel:      o.Stage.Label(),
		CreatedAt:       o.CreatedAt.Format(timestampFormat),
		UpdatedAt:       o.UpdatedAt.Format(timestampFormat),
	}
}

// StageEntryResponse is one record of an order's stage history.
type StageEntryResponse struct {
	ID        string  `json:"id" doc:"Unique identifier"`
	FromStage *string `json:"from_stage" doc:"Stage before the change, null at inception"`
	ToStage   string  `json:"to_stage" doc:"Stage after the change"`
	Note      string  `json:"note,omitempty" doc:"Free-text annotation"`
	ChangedAt string  `json:"changed_at" doc:"Transition timestamp (ISO 8601)"`
}

func toStageEntryResponse(e domain.StageEntry) StageEntryResponse {
	resp := StageEntryResponse{
		ID:        e.ID,
		ToStage:   string(e.ToStage),
		Note:      e.Note,
		ChangedAt: e.ChangedAt.Format(timestampFormat),
	}
	if e.FromStage != nil {
		from := string(*e.FromStage)
		resp.FromStage = &from
	}
	return resp
}

// OrderDetailResponse is an order joined with its offer and full history.
type OrderDetailResponse struct {
	OrderResponse
	Offer   OfferResponse        `json:"offer" doc:"Offer this order purchases from"`
	History []StageEntryResponse `json:"history" doc:"Stage transitions, oldest first"`
}

// DashboardResponse aggregates the caller's order activity.
type DashboardResponse struct {
	TotalOrders   int                   `json:"total_orders" doc:"Orders across all stages"`
	TotalInvested float64               `json:"total_invested" doc:"Sum of all order costs, rejected included"`
	OrdersByStage map[string]int        `json:"orders_by_stage" doc:"Order count per stage, absent stages omitted"`
	RecentOrders  []RecentOrderResponse `json:"recent_orders" doc:"Five most recent orders"`
}

// RecentOrderResponse is an order with its offer's display fields inlined.
type RecentOrderResponse struct {
	OrderResponse
	CompanyName string `json:"company_name" doc:"Issuing company"`
	Ticker      string `json:"ticker" doc:"Planned ticker symbol"`
}

// --- List Offers ---

type ListOffersInput struct {
	Status string `query:"status" required:"false" enum:"open,closed" doc:"Filter by status (defaults to open)"`
	Sector string `query:"sector" required:"false" doc:"Filter by sector"`
}

type ListOffersOutput struct {
	Body []OfferResponse
}

// --- Get Offer ---

type GetOfferInput struct {
	ID string `path:"id" doc:"Offer ID"`
}

type GetOfferOutput struct {
	Body OfferResponse
}

// --- Create Order ---

type CreateOrderInput struct {
	Body struct {
		OfferID         string `json:"offer_id" minLength:"1" doc:"Offer to purchase from"`
		SharesRequested int    `json:"shares_requested" minimum:"1" doc:"Number of shares to reserve"`
	}
}

type CreateOrderOutput struct {
	Body OrderResponse
}

// --- List Orders ---

type ListOrdersInput struct {
	Stage string `query:"stage" required:"false" enum:"PENDING_REVIEW,COMPLIANCE_CHECK,APPROVED,ALLOCATED,SETTLED,REJECTED" doc:"Filter by pipeline stage"`
}

type ListOrdersOutput struct {
	Body []OrderResponse
}

// --- Get Order ---

type GetOrderInput struct {
	ID string `path:"id" doc:"Order ID"`
}

type GetOrderOutput struct {
	Body OrderDetailResponse
}

// --- Advance Order ---

type AdvanceOrderInput struct {
	ID   string `path:"id" doc:"Order ID"`
	Body struct {
		ToStage string `json:"to_stage" enum:"COMPLIANCE_CHECK,APPROVED,ALLOCATED,SETTLED,REJECTED" doc:"Stage to move the order to"`
		Note    string `json:"note,omitempty" maxLength:"500" doc:"Optional annotation recorded in history"`
	}
}

type AdvanceOrderOutput struct {
	Body OrderResponse
}

// --- Dashboard ---

type DashboardInput struct{}

type DashboardOutput struct {
	Body DashboardResponse
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, orders *app.OrderService, offers *app.OfferService, dashboard *app.DashboardService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-offers",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers",
		Summary:     "List share offerings",
		Tags:        []string{"Offers"},
	}, func(ctx context.Context, input *ListOffersInput) (*ListOffersOutput, error) {
		var status *domain.OfferStatus
		if input.Status != "" {
			s := domain.OfferStatus(input.Status)
			status = &s
		}

		result, err := offers.List(ctx, status, input.Sector)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]OfferResponse, len(result))
		for i, o := range result {
			resp[i] = toOfferResponse(o)
		}
		return &ListOffersOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-offer",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers/{id}",
		Summary:     "Get a share offering by ID",
		Tags:        []string{"Offers"},
	}, func(ctx context.Context, input *GetOfferInput) (*GetOfferOutput, error) {
		offer, err := offers.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetOfferOutput{Body: toOfferResponse(offer)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-order",
		Method:      http.MethodPost,
		Path:        "/api/v1/orders",
		Summary:     "Place a purchase order",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *CreateOrderInput) (*CreateOrderOutput, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}

		order, err := orders.Create(ctx, userID, input.Body.OfferID, input.Body.SharesRequested)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateOrderOutput{Body: toOrderResponse(order)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders",
		Summary:     "List the caller's orders",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *ListOrdersInput) (*ListOrdersOutput, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}

		var stage *domain.Stage
		if input.Stage != "" {
			s := domain.Stage(input.Stage)
			stage = &s
		}

		result, err := orders.List(ctx, userID, stage)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]OrderResponse, len(result))
		for i, o := range result {
			resp[i] = toOrderResponse(o)
		}
		return &ListOrdersOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-order",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders/{id}",
		Summary:     "Get an order with its offer and stage history",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *GetOrderInput) (*GetOrderOutput, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}

		detail, err := orders.Detail(ctx, userID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := OrderDetailResponse{
			OrderResponse: toOrderResponse(detail.Order),
			Offer:         toOfferResponse(detail.Offer),
			History:       make([]StageEntryResponse, len(detail.History)),
		}
		for i, e := range detail.History {
			resp.History[i] = toStageEntryResponse(e)
		}
		return &GetOrderOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "advance-order",
		Method:      http.MethodPost,
		Path:        "/api/v1/orders/{id}/stage",
		Summary:     "Move an order to another pipeline stage",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *AdvanceOrderInput) (*AdvanceOrderOutput, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}

		order, err := orders.Advance(ctx, userID, input.ID, domain.Stage(input.Body.ToStage), input.Body.Note)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AdvanceOrderOutput{Body: toOrderResponse(order)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard",
		Summary:     "Aggregate the caller's order activity",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *DashboardInput) (*DashboardOutput, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}

		stats, err := dashboard.Stats(ctx, userID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := DashboardResponse{
			TotalOrders:   stats.TotalOrders,
			TotalInvested: stats.TotalInvested,
			OrdersByStage: make(map[string]int, len(stats.OrdersByStage)),
			RecentOrders:  make([]RecentOrderResponse, len(stats.RecentOrders)),
		}
		for stage, count := range stats.OrdersByStage {
			resp.OrdersByStage[string(stage)] = count
		}
		for i, ro := range stats.RecentOrders {
			resp.RecentOrders[i] = RecentOrderResponse{
				OrderResponse: toOrderResponse(ro.Order),
				CompanyName:   ro.CompanyName,
				Ticker:        ro.Ticker,
			}
		}
		return &DashboardOutput{Body: resp}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrOfferNotFound) {
		return huma.Error404NotFound("offer not found")
	}
	if errors.Is(err, domain.ErrOrderNotFound) {
		return huma.Error404NotFound("order not found")
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error400BadRequest(valErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
