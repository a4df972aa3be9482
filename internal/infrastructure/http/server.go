package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

type Server struct {
	svc  *application.TokenPricesService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.TokenPricesService) *Server { return &Server{svc: svc} }

// SetReadyCheck wires the /readyz probe to a dependency ping, usually the DB.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type refreshRequest struct {
	Address string `json:"address"`
}

type refreshResponse struct {
	RefreshID string `json:"refresh_id"`
}

type refreshDetails struct {
	RefreshID string    `json:"refresh_id"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	Error     *string   `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type lastPrice struct {
	Address   string    `json:"address"`
	Price     string    `json:"price"`
	Liquidity *string   `json:"liquidity,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type tokenOverview struct {
	Address           string `json:"address"`
	Price             string `json:"price"`
	Symbol            string `json:"symbol"`
	Decimals          int    `json:"decimals"`
	LastTradeUnixTime int64  `json:"last_trade_unix_time"`
	Liquidity         string `json:"liquidity"`
	Supply            string `json:"supply"`
}

func (s *Server) RequestPriceRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var idem *string
	if k := r.Header.Get("X-Idempotency-Key"); k != "" {
		idem = &k
	}
	id, err := s.svc.RequestPriceRefresh(r.Context(), body.Address, idem)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{RefreshID: id})
}

func (s *Server) GetPriceRefresh(w http.ResponseWriter, r *http.Request, id string) {
	job, err := s.svc.GetPriceRefresh(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshDetails{
		RefreshID: job.ID,
		Address:   job.Address,
		Status:    string(job.Status),
		Error:     job.Error,
		UpdatedAt: job.UpdatedAt,
	})
}

func (s *Server) GetLastPrice(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	p, err := s.svc.GetLastPrice(r.Context(), address)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var liq *string
	if p.Liquidity.Valid {
		v := p.Liquidity.Decimal.String()
		liq = &v
	}
	writeJSON(w, http.StatusOK, lastPrice{
		Address:   p.Address,
		Price:     p.Price.String(),
		Liquidity: liq,
		UpdatedAt: p.UpdatedAt,
	})
}

func (s *Server) GetTokenOverview(w http.ResponseWriter, r *http.Request, address string) {
	ov, err := s.svc.GetTokenOverview(r.Context(), address)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenOverview{
		Address:           address,
		Price:             ov.Price.String(),
		Symbol:            ov.Symbol,
		Decimals:          ov.Decimals,
		LastTradeUnixTime: ov.LastTradeUnixTime,
		Liquidity:         ov.Liquidity.String(),
		Supply:            ov.Supply.String(),
	})
}

// writeDomainError translates the shared error taxonomy into HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var badAddr *domain.InvalidAddressError
	var invalid *domain.InvalidTokensError
	var upstream *domain.UpstreamStatusError
	switch {
	case errors.Is(err, domain.ErrNoTokens):
		writeError(w, http.StatusBadRequest, "address is required")
	case errors.As(err, &badAddr):
		writeError(w, http.StatusBadRequest, "invalid address: "+badAddr.Address)
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate request")
	case errors.Is(err, application.ErrNotFound), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &invalid), errors.Is(err, domain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "token not found")
	case errors.Is(err, domain.ErrNoLiquidity):
		writeError(w, http.StatusUnprocessableEntity, "no pool with SOL liquidity")
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, "upstream provider error")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Code: status, Message: msg})
}
