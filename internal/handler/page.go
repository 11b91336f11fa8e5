package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/xrp-tax-service/internal/apperr"
	"github.com/Dan9191/xrp-tax-service/internal/models"
	"github.com/Dan9191/xrp-tax-service/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"yen":   utils.FormatYen,
	"price": utils.FormatPrice,
	"pct": func(rate float64) string {
		return strconv.FormatFloat(rate*100, 'f', 0, 64) + "%"
	},
}).ParseFS(templateFS, "templates/index.html"))

// pageData holds the form fields exactly as typed, plus the results.
type pageData struct {
	Income    string
	Amount    string
	BuyPrice  string
	SellPrice string
	Date      string
	Notice    string
	Result    *models.EstimateResult
}

// parseAmount reads a form number the way the browser form does: blanks and
// garbage count as 0. Thousands separators are accepted.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Index handles GET / and renders the calculator. With action=fetch it first
// resolves the date's price into the sale price field.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{
		Income:    q.Get("income"),
		Amount:    q.Get("amount"),
		BuyPrice:  q.Get("buy_price"),
		SellPrice: q.Get("sell_price"),
		Date:      q.Get("date"),
	}

	if q.Get("action") == "fetch" {
		h.fetchIntoForm(r, &data)
	}

	data.Result = h.svc.Calculate(models.EstimateInput{
		Income:    parseAmount(data.Income),
		Amount:    parseAmount(data.Amount),
		BuyPrice:  parseAmount(data.BuyPrice),
		SellPrice: parseAmount(data.SellPrice),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		h.log.WithError(err).Error("Failed to render page")
	}
}

func (h *Handler) fetchIntoForm(r *http.Request, data *pageData) {
	if strings.TrimSpace(data.Date) == "" {
		data.Notice = "Please enter a date."
		return
	}

	quote, err := h.svc.FormPrice(r.Context(), data.Date)
	if err == nil {
		data.SellPrice = strconv.FormatFloat(quote.Price, 'f', -1, 64)
		return
	}

	switch apperr.KindOf(err) {
	case apperr.KindInvalidArgument:
		data.Notice = "That date could not be read."
	case apperr.KindNotFound:
		data.Notice = "No price is available for that date."
	default:
		data.Notice = "Price lookup failed. Please try again."
	}
}
