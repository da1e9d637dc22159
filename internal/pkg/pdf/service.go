// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/nishantmakwanaa/clothing-store/internal/client/cart"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
)

// Service handles PDF generation
type Service struct {
	config config.ReceiptConfig
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg config.ReceiptConfig) *Service {
	s := &Service{config: cfg}
	s.tmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
		"money": s.FormatMoney,
		"date":  func(o cart.Order) string { return o.Date.Format("January 2, 2006 15:04 MST") },
	}).Parse(receiptTemplate))
	return s
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	Customer      string
	Order         cart.Order
	Store         config.ReceiptConfig
}

// FormatMoney renders minor currency units with two decimals
func (s *Service) FormatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%s %d.%02d", sign, s.config.Currency, minor/100, minor%100)
}

// RenderReceiptHTML renders the receipt page for an order
func (s *Service) RenderReceiptHTML(order cart.Order, customer string) (string, error) {
	data := ReceiptData{
		ReceiptNumber: receiptNumber(order.ID),
		Customer:      customer,
		Order:         order,
		Store:         s.config,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceipt converts the rendered receipt to PDF with wkhtmltopdf
func (s *Service) GenerateReceipt(order cart.Order, customer string) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderReceiptHTML(order, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterCenter.Set(s.config.StoreWebsite)
	page.FooterFontSize.Set(8)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func receiptNumber(orderID string) string {
	if len(orderID) > 8 {
		orderID = orderID[:8]
	}
	return "RCPT-" + orderID
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #333; padding-bottom: 10px; margin-bottom: 20px; }
        .store-name { font-size: 22px; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; margin-top: 15px; }
        th, td { text-align: left; padding: 6px; border-bottom: 1px solid #ddd; }
        td.amount, th.amount { text-align: right; }
        .total { font-weight: bold; font-size: 16px; }
        .status { color: #2e7d32; }
    </style>
</head>
<body>
    <div class="header">
        <div class="store-name">{{.Store.StoreName}}</div>
        <div>{{.Store.StoreEmail}} &middot; {{.Store.StoreWebsite}}</div>
    </div>
    <p>
        <strong>Receipt:</strong> {{.ReceiptNumber}}<br>
        <strong>Order:</strong> {{.Order.ID}}<br>
        <strong>Date:</strong> {{date .Order}}<br>
        {{if .Customer}}<strong>Customer:</strong> {{.Customer}}<br>{{end}}
        <strong>Status:</strong> <span class="status">{{.Order.Status}}</span>
    </p>
    <table>
        <thead>
            <tr><th>Item</th><th>Color</th><th>Size</th><th class="amount">Price</th></tr>
        </thead>
        <tbody>
        {{range .Order.Lines}}
            <tr>
                <td>{{.Name}}{{if .Brand}} ({{.Brand}}){{end}}</td>
                <td>{{.Color}}</td>
                <td>{{.Size}}</td>
                <td class="amount">{{money .Price}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>
    <table>
        <tr><td>Shipping</td><td class="amount">{{money 0}}</td></tr>
        <tr class="total"><td>Total</td><td class="amount">{{money .Order.Total}}</td></tr>
    </table>
</body>
</html>`
