package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and returns a PDF receipt for a paid order.
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Lines").Preload("Lines.Product").Preload("Lines.Course").
		First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !orderVisibleTo(c, &order) {
		utils.NotFound(c, "Order not found")
		return
	}
	if !order.Paid {
		utils.BadRequest(c, "Invoice is only available for paid orders", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Emporio Della Casa")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "contato@emporiodellacasa.com.br")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "RECIBO")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(50, 8, "Pedido: "+strconv.Itoa(int(order.ID)))
	pdf.Cell(60, 8, "Data: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(50, 8, "Pagamento: "+order.PaymentStatus)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Cliente:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, order.FirstName+" "+order.LastName)
	pdf.Ln(6)
	pdf.Cell(100, 8, order.Email)
	pdf.Ln(6)
	if order.Address != "" {
		pdf.Cell(100, 8, order.Address)
		pdf.Ln(6)
		pdf.Cell(100, 8, order.City+" - "+order.State+" "+order.PostalCode)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qtd", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Preco", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for i := range order.Lines {
		line := &order.Lines[i]
		name := "Item"
		if line.Product != nil {
			name = line.Product.Name
		} else if line.Course != nil {
			name = line.Course.Title
		}
		pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", line.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", line.Cost()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.ItemsTotal()), "", 1, "R", false, 0, "")
	if order.Discount > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(120, 8, "Desconto:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("%d%%", order.Discount), "", 1, "R", false, 0, "")
	}
	if order.ShippingCost > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(120, 8, "Frete:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.ShippingCost), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", order.Total()), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render invoice PDF for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=recibo.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
