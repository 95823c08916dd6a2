package controllers

import (
	"fmt"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
	"oficinadoaluno_go/services/finance"
	"oficinadoaluno_go/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type TransactionController struct{}

// TransactionRequest represents the create transaction body. Transactions are
// immutable once created; corrections are new entries.
type TransactionRequest struct {
	Type           string  `json:"type" validate:"required,oneof=credit monthly payment"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Date           string  `json:"date" validate:"required,len=10"`
	Description    string  `json:"description" validate:"max=500"`
	Category       string  `json:"category" validate:"max=100"`
	PaymentMethod  string  `json:"payment_method" validate:"max=50"`
	CreditsBought  float64 `json:"credits_bought" validate:"gte=0"`
	StudentID      *uint   `json:"student_id"`
	ProfessionalID *uint   `json:"professional_id"`
}

// GetTransactions lists ledger entries, filtered by month or date range
func (tc *TransactionController) GetTransactions(c *fiber.Ctx) error {
	var transactions []models.Transaction

	query := database.DB.Model(&models.Transaction{}).
		Preload("Student").Preload("Professional").Preload("RegisteredBy")

	if year, month, ok := monthQuery(c); ok {
		from, to := agenda.MonthWindow(year, month)
		query = query.Where("date >= ? AND date <= ?", from, to)
	} else {
		if from := c.Query("from"); from != "" {
			query = query.Where("date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("date <= ?", to)
		}
	}

	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	if err := query.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"transactions": transactions})
}

// CreateTransaction records an immutable ledger entry. A credit purchase also
// increments the student's balance; both writes share one transaction.
func (tc *TransactionController) CreateTransaction(c *fiber.Ctx) error {
	var req TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	if _, err := agenda.ParseDate(req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data inválida."})
	}

	if req.Type == "credit" {
		if req.StudentID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Compra de créditos exige um aluno."})
		}
		if req.CreditsBought <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe a quantidade de créditos comprados."})
		}
	}

	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	transaction := models.Transaction{
		Type:           req.Type,
		Amount:         req.Amount,
		Date:           req.Date,
		Description:    req.Description,
		Category:       req.Category,
		PaymentMethod:  req.PaymentMethod,
		CreditsBought:  req.CreditsBought,
		StudentID:      req.StudentID,
		ProfessionalID: req.ProfessionalID,
		RegisteredByID: collab.ID,
	}

	// Ledger entry and credit increment commit or roll back together
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		if transaction.Type == "credit" {
			return tx.Model(&models.Student{}).
				Where("id = ?", *transaction.StudentID).
				Update("credits", gorm.Expr("credits + ?", transaction.CreditsBought)).Error
		}
		return nil
	})
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "transactions", transaction.ID, fiber.Map{
		"type":   transaction.Type,
		"amount": transaction.Amount,
	})
	broadcastChange("transactions", "created", transaction.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Lançamento registrado",
		"transaction": transaction,
	})
}

// GetSummary returns the income/expense/balance totals for a month
func (tc *TransactionController) GetSummary(c *fiber.Ctx) error {
	year, month, ok := monthQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe ano e mês (year/month)."})
	}

	from, to := agenda.MonthWindow(year, month)

	var transactions []models.Transaction
	if err := database.DB.Where("date >= ? AND date <= ?", from, to).Find(&transactions).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	summary := finance.Summarize(transactions, year, month)

	return c.JSON(fiber.Map{
		"year":    year,
		"month":   int(month),
		"summary": summary,
	})
}

// ExportTransactions downloads the month's ledger as an xlsx spreadsheet
func (tc *TransactionController) ExportTransactions(c *fiber.Ctx) error {
	year, month, ok := monthQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe ano e mês (year/month)."})
	}

	from, to := agenda.MonthWindow(year, month)

	var transactions []models.Transaction
	if err := database.DB.Preload("Student").Preload("Professional").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, id ASC").Find(&transactions).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Lançamentos"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Data", "Tipo", "Categoria", "Descrição", "Aluno", "Profissional", "Forma de Pagamento", "Créditos", "Valor"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, t := range transactions {
		studentName := utils.MissingLabel
		if t.Student != nil {
			studentName = t.Student.Name
		}
		professionalName := ""
		if t.Professional != nil {
			professionalName = t.Professional.Name
		}

		values := []interface{}{
			t.Date,
			t.Type,
			t.Category,
			t.Description,
			studentName,
			professionalName,
			t.PaymentMethod,
			t.CreditsBought,
			t.Amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	summary := finance.Summarize(transactions, year, month)
	base := len(transactions) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Receitas")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base), summary.TotalIncome)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), "Despesas")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), summary.TotalExpenses)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+2), "Saldo")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+2), summary.Balance)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroGenerico})
	}

	filename := fmt.Sprintf("financeiro_%04d-%02d.xlsx", year, int(month))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	middleware.LogActivity(c, "EXPORT", "transactions", 0, fiber.Map{"year": year, "month": int(month)})

	return c.Send(buf.Bytes())
}

// monthQuery reads year/month query params
func monthQuery(c *fiber.Ctx) (int, time.Month, bool) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}
