package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/ledger"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/shopspring/decimal"
)

func (s *Server) myTransactions(c *gin.Context) {
	s.writeTransactions(c, interfaces.TransactionFilter{
		AuthID:  currentSession(c).AuthID,
		OrderBy: interfaces.OrderByDueDateDesc,
	})
}

func (s *Server) myBalance(c *gin.Context) {
	s.writeBalance(c, currentSession(c).AuthID)
}

func (s *Server) userBalance(c *gin.Context) {
	s.writeBalance(c, c.Param("auth_id"))
}

func (s *Server) listTransactions(c *gin.Context) {
	s.writeTransactions(c, interfaces.TransactionFilter{
		AuthID:   c.Query("auth_id"),
		OpenOnly: c.Query("open") == "true",
		OrderBy:  interfaces.OrderByCreatedDesc,
	})
}

func (s *Server) writeTransactions(c *gin.Context, filter interfaces.TransactionFilter) {
	txs, err := s.ledger.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

func (s *Server) writeBalance(c *gin.Context, authID string) {
	sum, err := s.ledger.UserBalance(c.Request.Context(), authID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) getTransaction(c *gin.Context) {
	tx, err := s.ledger.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

type assessDuesRequest struct {
	AuthID   string          `json:"auth_id"`
	AllUsers bool            `json:"all_users"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
}

func (s *Server) assessDues(c *gin.Context) {
	var req assessDuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Validation("body", "invalid request body"))
		return
	}
	txs, err := s.ledger.AssessDues(c.Request.Context(), ledger.AssessRequest{
		AuthID:     req.AuthID,
		AllUsers:   req.AllUsers,
		Type:       req.Type,
		Amount:     req.Amount,
		AssessedBy: currentSession(c).AuthID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txs)
}

type paymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

func (s *Server) applyPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Validation("body", "invalid request body"))
		return
	}
	tx, err := s.ledger.ApplyPayment(c.Request.Context(), ledger.PaymentRequest{
		TransactionID: c.Param("id"),
		Amount:        req.Amount,
		Method:        req.PaymentMethod,
		AppliedBy:     currentSession(c).AuthID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

type monthlyReportResponse struct {
	Months        []ledger.MonthRow `json:"months"`
	TotalIncome   decimal.Decimal   `json:"total_income"`
	TotalBalance  decimal.Decimal   `json:"total_balance"`
	TotalExpenses decimal.Decimal   `json:"total_expenses"`
}

func (s *Server) monthlyReport(c *gin.Context) {
	sum, err := s.ledger.MonthlyReport(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, monthlyReportResponse{
		Months:        sum.Rows(),
		TotalIncome:   sum.TotalIncome,
		TotalBalance:  sum.TotalBalance,
		TotalExpenses: sum.TotalExpenses,
	})
}
