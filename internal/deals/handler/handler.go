// Package handler exposes the deal filter API over HTTP.
package handler

import (
	"net/http"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/internal/deals/service"
	"deal_finder_backend/internal/deals/transport"
	"deal_finder_backend/platform/httpkit"
	"deal_finder_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the deal endpoints on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/deals", h.FilterDeals)
	rg.GET("/deals/stats", h.Stats)
}

// FilterDeals handles GET /deals. Binding failures (a non-numeric price, a
// malformed boolean) reject the request outright rather than silently
// dropping the parameter.
func (h *Handler) FilterDeals(c *gin.Context) {
	var req transport.FilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	spec, err := service.ParseFilterSpec(req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	result, err := h.svc.Query(c.Request.Context(), spec)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	deals := make([]transport.DealResponse, 0, len(result.Deals))
	for _, d := range result.Deals {
		deals = append(deals, toDealResponse(d))
	}

	httpkit.OK(c, transport.FilterResponse{
		Deals:    deals,
		Count:    result.Count,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		HasMore:  result.HasMore,
	})
}

// Stats handles GET /deals/stats.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.StatsResponse{
		TotalDeals:    stats.TotalDeals,
		RecentDeals:   stats.RecentDeals,
		MatchedDeals:  stats.MatchedDeals,
		AvgMatchScore: stats.AvgMatchScore,
	})
}

func toDealResponse(d domain.Deal) transport.DealResponse {
	return transport.DealResponse{
		ID:        d.ID.String(),
		Title:     d.Title,
		Price:     d.Price,
		URL:       d.URL,
		Source:    d.Source,
		CreatedAt: d.CreatedAt,

		Lat: d.Lat,
		Lng: d.Lng,

		City:   d.City,
		State:  d.State,
		County: d.County,

		PropertyCategory: d.PropertyCategory,
		PropertyType:     d.PropertyType,
		Bedrooms:         d.Bedrooms,
		Bathrooms:        d.Bathrooms,
		SquareFeet:       d.SquareFeet,
		LotSize:          d.LotSize,

		HasPool:     d.HasPool,
		HasGym:      d.HasGym,
		PetFriendly: d.PetFriendly,

		CrimeRate:    d.CrimeRate,
		FloodZone:    d.FloodZone,
		SchoolRating: d.SchoolRating,
		SewageSystem: d.SewageSystem,
		OnMarket:     d.OnMarket,

		ListingID:        d.ListingID,
		MatchScore:       d.MatchScore,
		DistanceMeters:   d.DistanceMeters,
		PriceDiffPercent: d.PriceDiffPercent,
		AgentName:        d.AgentName,
		AgentPhone:       d.AgentPhone,
		AgentEmail:       d.AgentEmail,
		Brokerage:        d.Brokerage,
	}
}
