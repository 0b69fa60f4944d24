package app

import (
	"net/http"

	"github.com/Cihanyuksel/ticketing-api/api"
	"github.com/Cihanyuksel/ticketing-api/internal/pricing"
	"github.com/google/uuid"
)

func (app *Application) CalculatePriceHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := app.readUUIDParam(r, "sessionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.PriceQuoteRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := pricing.UserContext{
		UserAge:        input.UserAge,
		TicketQuantity: input.TicketQuantity,
		PurchaseDate:   input.PurchaseDate,
	}
	if input.UserId != nil {
		user.UserID = *input.UserId
	}

	breakdown, err := app.pricing.FinalPrice(r.Context(), sessionID, input.PriceId, user)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := toPriceQuoteResponse(breakdown)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSessionPricesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := app.readUUIDParam(r, "sessionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sessionPrices, err := app.pricing.AllSessionPrices(r.Context(), sessionID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := toSessionPricesResponse(sessionPrices)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toPriceQuoteResponse(breakdown *pricing.Breakdown) api.PriceQuoteResponse {
	appliedRules := make([]api.AppliedRule, len(breakdown.AppliedRules))
	for i, rule := range breakdown.AppliedRules {
		appliedRules[i] = api.AppliedRule{
			RuleId:   rule.RuleID,
			Name:     rule.Name,
			Discount: rule.Discount,
		}
	}

	return api.PriceQuoteResponse{
		BasePrice:       breakdown.BasePrice,
		StrategyPrice:   breakdown.StrategyPrice,
		FinalPrice:      breakdown.FinalPrice,
		Currency:        breakdown.Currency,
		AppliedStrategy: string(breakdown.AppliedStrategy),
		AppliedRules:    appliedRules,
		TotalDiscount:   breakdown.TotalDiscount,
	}
}

func toSessionPricesResponse(sessionPrices *pricing.SessionPrices) api.SessionPricesResponse {
	prices := make([]api.SessionPrice, len(sessionPrices.Prices))
	for i, price := range sessionPrices.Prices {
		var sectionID *uuid.UUID
		if price.SectionID != nil {
			id := *price.SectionID
			sectionID = &id
		}

		prices[i] = api.SessionPrice{
			PriceId:         price.PriceID,
			Name:            price.Name,
			SectionId:       sectionID,
			BasePrice:       price.BasePrice,
			CalculatedPrice: price.CalculatedPrice,
			Currency:        price.Currency,
		}
	}

	return api.SessionPricesResponse{
		SessionId: sessionPrices.SessionID,
		Strategy:  string(sessionPrices.Strategy),
		Prices:    prices,
	}
}
