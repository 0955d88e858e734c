// Package transport exposes the read side of the index over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type (
	Reader interface {
		MaxHeight(ctx context.Context) (uint64, bool, error)
		HeightInfo(ctx context.Context, height uint64) (model.HeightInfo, error)
		BlkhashToHeight(ctx context.Context, blkhash model.BlockHash) (uint64, error)
		TxVars(ctx context.Context, txhash model.TxHash) (model.TxVars, error)
		Stakes(ctx context.Context, epoch uint64) ([]model.StakeDoc, error)
		Supply(ctx context.Context, denom model.Denom, height uint64) (model.CoinValue, error)
		QueryCoins() query.CoinQuery
		NewBalanceTracker(covhash model.Address, denom model.Denom) *indexer.BalanceTracker
	}

	Metrics interface {
		ObserveRequest(route, method string, code int, started time.Time)
	}
)

var errNoBlocks = errors.New("no blocks indexed yet")

// Handler serves the query API.
type Handler struct {
	reader   Reader
	trackers *trackers
	metrics  Metrics
	logger   *zap.Logger
}

func NewHandler(reader Reader, metrics Metrics, logger *zap.Logger) (*Handler, error) {
	if reader == nil {
		return nil, errors.New("reader is required")
	}
	if metrics == nil {
		return nil, errors.New("http metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		reader:   reader,
		trackers: newTrackers(reader, defaultMaxTrackers),
		metrics:  metrics,
		logger:   logger.Named("http"),
	}, nil
}

// NewRouter registers every route of the API.
func (h *Handler) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.observe)

	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/height", h.HandleHeight).Methods(http.MethodGet)
	v1.HandleFunc("/headers/{height:[0-9]+}", h.HandleHeader).Methods(http.MethodGet)
	v1.HandleFunc("/blocks/{blkhash}/height", h.HandleBlockHeight).Methods(http.MethodGet)
	v1.HandleFunc("/transactions/{txhash}", h.HandleTransaction).Methods(http.MethodGet)
	v1.HandleFunc("/coins", h.HandleCoins).Methods(http.MethodGet)
	v1.HandleFunc("/balances/{covhash}", h.HandleBalance).Methods(http.MethodGet)
	v1.HandleFunc("/supply/{denom}", h.HandleSupply).Methods(http.MethodGet)
	v1.HandleFunc("/stakes", h.HandleStakes).Methods(http.MethodGet)
	return r
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleHeight(w http.ResponseWriter, r *http.Request) {
	height, err := h.tip(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, heightResponse{Height: height})
}

func (h *Handler) HandleHeader(w http.ResponseWriter, r *http.Request) {
	height, err := parseUint(mux.Vars(r)["height"], "height")
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	info, err := h.reader.HeightInfo(r.Context(), height)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

func (h *Handler) HandleBlockHeight(w http.ResponseWriter, r *http.Request) {
	blkhash, err := parseHash(mux.Vars(r)["blkhash"], "blkhash")
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	height, err := h.reader.BlkhashToHeight(r.Context(), blkhash)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, heightResponse{Height: height})
}

func (h *Handler) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	txhash, err := parseHash(mux.Vars(r)["txhash"], "txhash")
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	vars, err := h.reader.TxVars(r.Context(), txhash)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, transactionResponse{TxVars: vars, KindName: vars.Kind.String()})
}

func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	covhash, err := parseHash(mux.Vars(r)["covhash"], "covhash")
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	denom := model.DenomMel
	if raw := r.URL.Query().Get("denom"); raw != "" {
		if denom, err = parseDenom(raw); err != nil {
			h.writeFailure(w, r, err)
			return
		}
	}
	height, err := h.heightParam(r)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	balance, err := h.trackers.get(covhash, denom).BalanceAt(r.Context(), height)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newAmountResponse(height, denom, balance))
}

func (h *Handler) HandleSupply(w http.ResponseWriter, r *http.Request) {
	denom, err := parseDenom(mux.Vars(r)["denom"])
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	height, err := h.heightParam(r)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	supply, err := h.reader.Supply(r.Context(), denom, height)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newAmountResponse(height, denom, supply))
}

func (h *Handler) HandleStakes(w http.ResponseWriter, r *http.Request) {
	epoch, err := parseUint(r.URL.Query().Get("epoch"), "epoch")
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	docs, err := h.reader.Stakes(r.Context(), epoch)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if docs == nil {
		docs = []model.StakeDoc{}
	}
	h.writeJSON(w, http.StatusOK, docs)
}

// heightParam reads ?height= and defaults to the indexed tip. Heights above
// the tip are rejected.
func (h *Handler) heightParam(r *http.Request) (uint64, error) {
	tip, err := h.tip(r.Context())
	if err != nil {
		return 0, err
	}
	raw := r.URL.Query().Get("height")
	if raw == "" {
		return tip, nil
	}
	height, err := parseUint(raw, "height")
	if err != nil {
		return 0, err
	}
	if height > tip {
		return 0, fmt.Errorf("%w: %d is above tip %d", indexer.ErrHeightNotIndexed, height, tip)
	}
	return height, nil
}

func (h *Handler) tip(ctx context.Context) (uint64, error) {
	height, ok, err := h.reader.MaxHeight(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errNoBlocks
	}
	return height, nil
}

type heightResponse struct {
	Height uint64 `json:"height"`
}

type transactionResponse struct {
	model.TxVars
	KindName string `json:"kind_name"`
}

type amountResponse struct {
	Height  uint64           `json:"height"`
	Denom   model.Denom      `json:"denom"`
	Value   model.CoinValue  `json:"value"`
	Decimal *decimal.Decimal `json:"decimal,omitempty"`
}

// newAmountResponse renders native denoms with their fractional digits.
func newAmountResponse(height uint64, denom model.Denom, value model.CoinValue) amountResponse {
	resp := amountResponse{Height: height, Denom: denom, Value: value}
	switch denom {
	case model.DenomMel, model.DenomSym, model.DenomErg:
		d := value.Decimal(model.MelDecimals)
		resp.Decimal = &d
	}
	return resp
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	var bad *badRequestError
	switch {
	case errors.As(err, &bad), errors.Is(err, query.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound), errors.Is(err, errNoBlocks), errors.Is(err, indexer.ErrHeightNotIndexed):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseUint(raw, name string) (uint64, error) {
	if raw == "" {
		return 0, badRequest("%s is required", name)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

func parseHash(raw, name string) (model.Hash, error) {
	h, err := model.ParseHash(raw)
	if err != nil {
		return model.Hash{}, badRequest("invalid %s: %v", name, err)
	}
	return h, nil
}

func parseDenom(raw string) (model.Denom, error) {
	d, err := model.ParseDenom(raw)
	if err != nil {
		return "", badRequest("invalid denom: %v", err)
	}
	return d, nil
}
