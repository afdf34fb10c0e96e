package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"github.com/leaseledger/leaseledger-backend/internal/http/response"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/ctxutil"
)

type AgreementHandler struct {
	agreements domainagg.AgreementAggregate
}

func NewAgreementHandler(agreements domainagg.AgreementAggregate) *AgreementHandler {
	return &AgreementHandler{agreements: agreements}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func agreementID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid agreement id %q", c.Param("id"))
	}
	return id, nil
}

// Create opens an agreement with the authenticated user as landlord.
func (h *AgreementHandler) Create(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	var req struct {
		TenantID        uuid.UUID `json:"tenant_id"`
		RentAmount      uint64    `json:"rent_amount"`
		SecurityDeposit uint64    `json:"security_deposit"`
		DurationDays    int       `json:"duration_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.agreements.CreateAgreement(c.Request.Context(), domainagg.CreateAgreementInput{
		Landlord:        caller,
		Tenant:          req.TenantID,
		RentAmount:      req.RentAmount,
		SecurityDeposit: req.SecurityDeposit,
		DurationDays:    req.DurationDays,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"agreement": res.Agreement})
}

func (h *AgreementHandler) Pay(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	id, err := agreementID(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.agreements.PayRent(c.Request.Context(), domainagg.PayRentInput{
		Caller:      caller,
		AgreementID: id,
		Amount:      req.Amount,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"deposit_collected": res.DepositCollected,
		"paid_at":           res.PaidAt,
	})
}

func (h *AgreementHandler) Terminate(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	id, err := agreementID(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.agreements.TerminateAgreement(c.Request.Context(), domainagg.TerminateAgreementInput{
		Caller:      caller,
		AgreementID: id,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"deposit_refunded": res.DepositRefunded,
		"terminated_at":    res.TerminatedAt,
	})
}

func (h *AgreementHandler) Get(c *gin.Context) {
	id, err := agreementID(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	agreement, err := h.agreements.GetAgreement(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"agreement": agreement})
}

func (h *AgreementHandler) Overdue(c *gin.Context) {
	id, err := agreementID(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	overdue, err := h.agreements.IsRentOverdue(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"agreement_id": id, "overdue": overdue})
}

// ListAsLandlord returns the caller's agreements in creation order.
func (h *AgreementHandler) ListAsLandlord(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	agreements, err := h.agreements.ListLandlordAgreements(c.Request.Context(), caller)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"agreements": agreements})
}

func (h *AgreementHandler) ListAsTenant(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	agreements, err := h.agreements.ListTenantAgreements(c.Request.Context(), caller)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"agreements": agreements})
}
