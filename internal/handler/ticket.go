package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/receipt"
	"github.com/dukerupert/cesta/internal/shopping"
	"github.com/dukerupert/cesta/internal/websocket"
)

type TicketHandler struct {
	svc    *shopping.Service
	parser receipt.Parser
	notify notifier
	logger *slog.Logger
}

func NewTicketHandler(svc *shopping.Service, parser receipt.Parser, hub *websocket.Hub, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{svc: svc, parser: parser, notify: notifier{hub: hub}, logger: logger}
}

type ticketLineRequest struct {
	RawText      string           `json:"raw_text" validate:"required,max=200"`
	ProductName  string           `json:"product_name" validate:"max=100"`
	BrandGuess   string           `json:"brand_guess" validate:"max=100"`
	SizeGuess    string           `json:"size_guess" validate:"max=50"`
	Quantity     int              `json:"quantity" validate:"min=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price" validate:"required"`
	CategoryName string           `json:"category_name"`
	HealthScore  *int             `json:"health_score_guess" validate:"omitempty,min=1,max=5"`
	Quality      model.Quality    `json:"quality" validate:"omitempty,oneof=Buena Normal Mala"`
}

// manualTicketRequest opens a ticket from lines typed in by hand.
type manualTicketRequest struct {
	StoreID string              `json:"store_id" validate:"required"`
	Lines   []ticketLineRequest `json:"lines" validate:"dive"`
}

type ticketStoreRequest struct {
	StoreID string `json:"store_id" validate:"required"`
}

type lineEditRequest struct {
	ProductName      *string        `json:"product_name" validate:"omitempty,max=100"`
	BrandGuess       *string        `json:"brand_guess" validate:"omitempty,max=100"`
	SizeGuess        *string        `json:"size_guess" validate:"omitempty,max=50"`
	CategoryName     *string        `json:"category_name"`
	Quality          *model.Quality `json:"quality" validate:"omitempty,oneof=Buena Normal Mala"`
	HealthScoreGuess *int           `json:"health_score_guess" validate:"omitempty,min=1,max=5"`
	MatchedProductID *string        `json:"matched_product_id"`
}

// Create opens a ticket. A multipart upload carries the receipt photo in
// the "image" field and the store in "store_id"; a JSON body carries the
// lines directly.
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var (
		storeID string
		lines   []model.TicketLine
		err     error
	)
	if mediaType == "multipart/form-data" {
		storeID, lines, err = h.readUpload(w, r)
	} else {
		storeID, lines, err = readManual(w, r)
	}
	if err != nil {
		writeError(w, h.logger, "read ticket", err)
		return
	}

	t, err := h.svc.CreateTicket(storeID, lines)
	if err != nil {
		writeError(w, h.logger, "create ticket", err)
		return
	}
	h.logger.Info("ticket created", "ticket_id", t.ID, "store_id", t.StoreID, "lines", len(t.Lines))
	writeJSON(w, http.StatusCreated, t)
}

func (h *TicketHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []model.TicketLine, error) {
	r.Body = http.MaxBytesReader(w, r.Body, receipt.MaxImageSize+maxBodyBytes)
	if err := r.ParseMultipartForm(receipt.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, &requestError{msg: receipt.ErrImageTooLarge.Error()}
		}
		return "", nil, &requestError{msg: "invalid multipart form: " + err.Error()}
	}
	storeID := r.FormValue("store_id")
	if storeID == "" {
		return "", nil, &requestError{msg: "store_id is required", details: map[string]string{"store_id": "is required"}}
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return "", nil, &requestError{msg: "image is required", details: map[string]string{"image": "is required"}}
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, receipt.MaxImageSize+1))
	if err != nil {
		return "", nil, err
	}
	if _, err := receipt.CheckImage(image); err != nil {
		return "", nil, &requestError{msg: err.Error()}
	}
	lines, err := h.parser.Parse(r.Context(), image)
	if err != nil {
		return "", nil, err
	}
	return storeID, lines, nil
}

func readManual(w http.ResponseWriter, r *http.Request) (string, []model.TicketLine, error) {
	var req manualTicketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", nil, err
	}
	lines := make([]model.TicketLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, model.TicketLine{
			RawText:          l.RawText,
			ProductName:      l.ProductName,
			BrandGuess:       l.BrandGuess,
			SizeGuess:        l.SizeGuess,
			Quantity:         l.Quantity,
			UnitPrice:        *l.UnitPrice,
			CategoryName:     l.CategoryName,
			HealthScoreGuess: l.HealthScore,
			Quality:          l.Quality,
		})
	}
	return req.StoreID, lines, nil
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Ticket(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "get ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TicketHandler) SetStore(w http.ResponseWriter, r *http.Request) {
	var req ticketStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode ticket store", err)
		return
	}
	t, err := h.svc.SetTicketStore(r.PathValue("id"), req.StoreID)
	if err != nil {
		writeError(w, h.logger, "set ticket store", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TicketHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req lineEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode ticket line", err)
		return
	}
	t, err := h.svc.UpdateTicketLine(r.PathValue("id"), r.PathValue("line_id"), shopping.LineEdit{
		ProductName:      req.ProductName,
		BrandGuess:       req.BrandGuess,
		SizeGuess:        req.SizeGuess,
		CategoryName:     req.CategoryName,
		Quality:          req.Quality,
		HealthScoreGuess: req.HealthScoreGuess,
		MatchedProductID: req.MatchedProductID,
	})
	if err != nil {
		writeError(w, h.logger, "update ticket line", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TicketHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.DeleteTicketLine(r.PathValue("id"), r.PathValue("line_id"))
	if err != nil {
		writeError(w, h.logger, "delete ticket line", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Apply writes the reviewed lines into the catalog and price ledger.
func (h *TicketHandler) Apply(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ApplyTicket(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "apply ticket", err)
		return
	}
	h.notify.catalog("ticket", "applied", res.Ticket.ID)
	writeJSON(w, http.StatusOK, res)
}
