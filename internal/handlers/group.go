package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/moneybalancer/internal/middleware"
	"github.com/mmynk/moneybalancer/internal/models"
	"github.com/mmynk/moneybalancer/internal/service"
)

// GroupHandler serves groups, memberships, transactions, and balances.
type GroupHandler struct {
	groups *service.GroupService
	ledger *service.LedgerService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groups *service.GroupService, ledger *service.LedgerService) *GroupHandler {
	return &GroupHandler{groups: groups, ledger: ledger}
}

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// createTransactionRequest is a tagged one-of: exactly one of Amount or
// Debts must be present. The amount variant runs the fair split; the debts
// variant records the shares as supplied. Both converge on the same
// persistence path.
type createTransactionRequest struct {
	Amount *amountTransactionRequest `json:"amount"`
	Debts  *debtsTransactionRequest  `json:"debts"`
}

type amountTransactionRequest struct {
	DebtorIDs   []string `json:"debtor_ids" binding:"required"`
	Amount      int64    `json:"amount"`
	Description string   `json:"description"`
	Timestamp   int64    `json:"timestamp"`
}

type debtsTransactionRequest struct {
	Debts       []debtInput `json:"debts" binding:"required"`
	Description string      `json:"description"`
	Timestamp   int64       `json:"timestamp"`
}

type debtInput struct {
	DebtorID          string `json:"debtor_id" binding:"required"`
	Amount            int64  `json:"amount"`
	WasSplitUnequally bool   `json:"was_split_unequally"`
}

// CreateGroup creates a new group owned by the caller.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, err := h.groups.UserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if owner == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), req.Name, owner)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListGroups lists the caller's groups.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.GroupsOfUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup returns one of the caller's groups.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groups.GroupOfUser(c.Request.Context(), c.Param("groupId"), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// ListMembers lists the members of one of the caller's groups.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	members, err := h.groups.MembersOfGroup(c.Request.Context(), c.Param("groupId"), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// JoinGroup adds the caller to a group as a regular member.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	if err := h.groups.JoinGroup(c.Request.Context(), c.Param("groupId"), middleware.UserID(c)); err != nil {
		// Duplicate membership or unknown group both surface as a client
		// error, matching the membership constraint.
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not join group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ListTransactions lists the group's transactions, newest first.
func (h *GroupHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.ledger.ListTransactions(c.Request.Context(), c.Param("groupId"), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

// CreateTransaction records a transaction with the caller as creditor,
// from either request variant.
func (h *GroupHandler) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.Amount == nil) == (req.Debts == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of amount or debts must be set"})
		return
	}

	groupID := c.Param("groupId")
	creditorID := middleware.UserID(c)

	var (
		transaction *models.Transaction
		err         error
	)
	if req.Amount != nil {
		if req.Amount.Amount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
			return
		}
		transaction, err = h.ledger.CreateTransactionFromAmount(
			c.Request.Context(), groupID, creditorID,
			req.Amount.DebtorIDs, req.Amount.Amount, req.Amount.Description, req.Amount.Timestamp,
		)
	} else {
		debts := make([]models.Debt, len(req.Debts.Debts))
		for i, d := range req.Debts.Debts {
			debts[i] = models.Debt{
				DebtorID:          d.DebtorID,
				Amount:            d.Amount,
				WasSplitUnequally: d.WasSplitUnequally,
			}
		}
		transaction, err = h.ledger.CreateTransactionFromDebts(
			c.Request.Context(), groupID, creditorID,
			debts, req.Debts.Description, req.Debts.Timestamp,
		)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// DeleteTransaction removes a transaction from the group.
func (h *GroupHandler) DeleteTransaction(c *gin.Context) {
	deleted, err := h.ledger.DeleteTransaction(
		c.Request.Context(), c.Param("groupId"), middleware.UserID(c), c.Param("transactionId"),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// GetDebts returns the caller's net balance against every other member.
func (h *GroupHandler) GetDebts(c *gin.Context) {
	balances, err := h.ledger.NetBalances(c.Request.Context(), c.Param("groupId"), middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if balances == nil {
		balances = []models.NetBalance{}
	}
	c.JSON(http.StatusOK, balances)
}
