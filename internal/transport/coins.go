package transport

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/query"
	"go.uber.org/zap"
)

const (
	defaultCoinsLimit = 100
	maxCoinsLimit     = 10_000
)

// HandleCoins streams the matching coins as a JSON array. Filter errors are
// reported before the first byte of the body.
func (h *Handler) HandleCoins(w http.ResponseWriter, r *http.Request) {
	q, err := parseCoinQuery(h.reader.QueryCoins(), r.URL.Query())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	enc := json.NewEncoder(w)
	started := false
	for coin, err := range q.Iter(r.Context()) {
		if err != nil {
			if !started {
				h.writeFailure(w, r, err)
				return
			}
			h.logger.Warn("coin stream aborted", zap.Error(err))
			return
		}
		if !started {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("["))
			started = true
		} else {
			_, _ = w.Write([]byte(","))
		}
		if err := enc.Encode(coin); err != nil {
			h.logger.Debug("write coin", zap.Error(err))
			return
		}
	}
	if !started {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("["))
	}
	_, _ = w.Write([]byte("]\n"))
}

func parseCoinQuery(q query.CoinQuery, params url.Values) (query.CoinQuery, error) {
	if raw := params.Get("denom"); raw != "" {
		d, err := parseDenom(raw)
		if err != nil {
			return q, err
		}
		q = q.Denom(d)
	}
	if raw := params.Get("covhash"); raw != "" {
		h, err := parseHash(raw, "covhash")
		if err != nil {
			return q, err
		}
		q = q.Covhash(h)
	}
	if raw := params.Get("create_txhash"); raw != "" {
		h, err := parseHash(raw, "create_txhash")
		if err != nil {
			return q, err
		}
		q = q.CreateTxhash(h)
	}
	if raw := params.Get("spend_txhash"); raw != "" {
		h, err := parseHash(raw, "spend_txhash")
		if err != nil {
			return q, err
		}
		q = q.SpendTxhash(h)
	}

	switch params.Get("status") {
	case "", "any":
	case "unspent":
		q = q.Unspent()
	case "spent":
		q = q.Spent()
	default:
		return q, badRequest("invalid status %q, want unspent, spent or any", params.Get("status"))
	}

	valueLo, err := optionalValue(params, "value_gte")
	if err != nil {
		return q, err
	}
	valueHi, err := optionalValue(params, "value_lt")
	if err != nil {
		return q, err
	}
	if valueLo != nil || valueHi != nil {
		q = q.ValueRange(query.BoundFromPtr(valueLo), query.BoundFromPtr(valueHi))
	}

	for _, hr := range []struct {
		lo, hi string
		apply  func(query.CoinQuery, query.Bound[uint64], query.Bound[uint64]) query.CoinQuery
	}{
		{"create_height_gte", "create_height_lt", query.CoinQuery.CreateHeightRange},
		{"spend_height_gte", "spend_height_lt", query.CoinQuery.SpendHeightRange},
	} {
		lo, err := optionalUint(params, hr.lo)
		if err != nil {
			return q, err
		}
		hi, err := optionalUint(params, hr.hi)
		if err != nil {
			return q, err
		}
		if lo != nil || hi != nil {
			q = hr.apply(q, query.BoundFromPtr(lo), query.BoundFromPtr(hi))
		}
	}

	limit := uint64(defaultCoinsLimit)
	if params.Get("limit") != "" {
		if limit, err = parseUint(params.Get("limit"), "limit"); err != nil {
			return q, err
		}
		if limit == 0 {
			return q, badRequest("limit must be positive")
		}
	}
	return q.Limit(min(limit, maxCoinsLimit)), nil
}

func optionalUint(params url.Values, name string) (*uint64, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := parseUint(raw, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalValue(params url.Values, name string) (*model.CoinValue, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := model.ParseU128(raw)
	if err != nil {
		return nil, badRequest("invalid %s %q", name, raw)
	}
	return &v, nil
}
