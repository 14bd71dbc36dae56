package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/patch"
	"expensetracker/internal/services"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
// Amount is in minor currency units.
type CreateExpenseRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Amount      *int64  `json:"amount" binding:"required,gte=0"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	CategoryID  *string `json:"category_id"`
}

// UpdateExpenseRequest is a partial update. Omitted keys are left unchanged; a
// null category_id moves the expense to the default category.
type UpdateExpenseRequest struct {
	Name        patch.Field[string] `json:"name" binding:"omitempty,max=50" swaggertype:"string"`
	Amount      patch.Field[int64]  `json:"amount" binding:"omitempty,gte=0" swaggertype:"integer"`
	Description patch.Field[string] `json:"description" binding:"omitempty,max=1000" swaggertype:"string"`
	CategoryID  patch.Field[string] `json:"category_id" swaggertype:"string"`
}

// ExpenseResponse represents an expense in the response
type ExpenseResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	CategoryID   string  `json:"category_id"`
	Name         string  `json:"name"`
	Amount       int64   `json:"amount"`
	Description  *string `json:"description"`
	DateOfEntry  string  `json:"date_of_entry"`
	DateOfUpdate *string `json:"date_of_update"`
}

func newExpenseResponse(expense *models.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          expense.ID,
		UserID:      expense.UserID,
		CategoryID:  expense.CategoryID,
		Name:        expense.Name,
		Amount:      expense.Amount,
		Description: expense.Description,
		DateOfEntry: expense.DateOfEntry.Format(time.DateOnly),
	}
	if expense.DateOfUpdate != nil {
		updated := expense.DateOfUpdate.Format(time.DateOnly)
		resp.DateOfUpdate = &updated
	}
	return resp
}

// mapPage converts the items of a page while keeping its metadata.
func mapPage[T, R any](page *pagination.PageResponse[T], fn func(*T) R) pagination.PageResponse[R] {
	data := make([]R, len(page.Data))
	for i := range page.Data {
		data[i] = fn(&page.Data[i])
	}
	return pagination.PageResponse[R]{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Record an expense. Without category_id it is filed under the default category.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseResponse "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /me/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, services.CreateExpenseInput{
		Name:        req.Name,
		Amount:      *req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceExpense, expense.ID, c.ClientIP(), map[string]any{
		"amount":      expense.Amount,
		"category_id": expense.CategoryID,
	})

	c.JSON(http.StatusCreated, gin.H{"expense": newExpenseResponse(expense)})
}

// GetExpenses lists the user's expenses
// @Summary     List expenses
// @Description Paginated list of the user's expenses, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /me/expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPage(result, newExpenseResponse))
}

// GetExpenseByID returns one expense
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse "Expense"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Expense belongs to another user"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /me/expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, pathID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": newExpenseResponse(expense)})
}

// UpdateExpense applies a partial update to an expense
// @Summary     Update an expense
// @Description Only provided fields change. A null category_id moves the expense to the default category.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} ExpenseResponse "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Expense or category belongs to another user"
// @Failure     404 {object} ErrorResponse "Expense or category not found"
// @Router      /me/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, pathID(c), services.ExpensePatch{
		Name:        req.Name,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceExpense, expense.ID, c.ClientIP(), changedFields(map[string]bool{
		"name":        req.Name.IsSet(),
		"amount":      req.Amount.IsSet(),
		"description": req.Description.IsSet(),
		"category_id": req.CategoryID.IsSet(),
	}))

	c.JSON(http.StatusOK, gin.H{"expense": newExpenseResponse(expense)})
}

// DeleteExpense deletes an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Expense belongs to another user"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /me/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID := pathID(c)
	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceExpense, expenseID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
