package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pawswap/config"
	"pawswap/pkg/log"
	"pawswap/pkg/quote"
	"pawswap/pkg/swap"
	"pawswap/pkg/tax"
	"pawswap/pkg/tokens"
)

var (
	serveAddr     string
	taxCacheTTL   time.Duration
	shutdownGrace = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tax and quote HTTP service",
	Long: `Serve tax structures and tax-adjusted quotes over HTTP.

Endpoints:
  GET /healthz
  GET /v1/taxes?token=<symbol-or-address>
  GET /v1/quote?input=<token>&output=<token>&amount=<n>&custom_tax=<pct>

Tax structures are cached in memory; token contracts change their taxes
rarely, so a short TTL keeps the RPC load flat under polling.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&taxCacheTTL, "tax-cache-ttl", 60*time.Second, "How long fetched tax structures stay cached")
}

func runServe(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log.Bootstrap(verbose)
	defer log.Sync()
	logger := log.S()

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := swap.NewService(ctx, cfg, logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer svc.Close()

	srv := newTaxServer(cfg, svc, taxCacheTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/v1/taxes", srv.handleTaxes)
	mux.HandleFunc("/v1/quote", srv.handleQuote)

	httpSrv := &http.Server{
		Addr:         serveAddr,
		Handler:      srv.logRequests(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infow("tax service listening", "addr", serveAddr, "chain_id", cfg.ChainID)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server exited", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown failed", "err", err)
	}
}

type taxServer struct {
	cfg *config.Config
	svc *swap.Service
	ttl time.Duration

	mu    sync.Mutex
	cache map[common.Address]cachedTaxes
}

type cachedTaxes struct {
	set     *tax.Set
	fetched time.Time
}

func newTaxServer(cfg *config.Config, svc *swap.Service, ttl time.Duration) *taxServer {
	return &taxServer{cfg: cfg, svc: svc, ttl: ttl, cache: make(map[common.Address]cachedTaxes)}
}

func (t *taxServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.S().Debugw("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func (t *taxServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// taxSetFor serves tax sets through the TTL cache.
func (t *taxServer) taxSetFor(ctx context.Context, token common.Address) (*tax.Set, error) {
	t.mu.Lock()
	if entry, ok := t.cache[token]; ok && time.Since(entry.fetched) < t.ttl {
		t.mu.Unlock()
		return entry.set, nil
	}
	t.mu.Unlock()

	set, err := t.svc.FetchTaxes(ctx, token)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.cache[token] = cachedTaxes{set: set, fetched: time.Now()}
	t.mu.Unlock()
	return set, nil
}

func (t *taxServer) handleTaxes(w http.ResponseWriter, r *http.Request) {
	token, err := tokens.Resolve(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if token.Native {
		writeError(w, http.StatusBadRequest, fmt.Errorf("the native coin carries no tax structure"))
		return
	}

	set, err := t.taxSetFor(r.Context(), token.Address)
	if err != nil {
		if errors.Is(err, tax.ErrNoTaxStructure) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token.Address.Hex(),
		"buy":     taxRowsJSON(set, tax.SideBuy),
		"sell":    taxRowsJSON(set, tax.SideSell),
		"fetched": time.Now().UTC(),
	})
}

func (t *taxServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input, err := tokens.Resolve(q.Get("input"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	output, err := tokens.Resolve(q.Get("output"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if input.Native == output.Native {
		writeError(w, http.StatusBadRequest, fmt.Errorf("one side of the pair must be %s", tokens.NativeSymbol))
		return
	}
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil || amount.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount %q", q.Get("amount")))
		return
	}

	customRate := tax.Rate(0)
	if raw := q.Get("custom_tax"); raw != "" {
		customRate, _, err = tax.ParseCustomPercent(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	ctx := r.Context()
	input, err = t.svc.ResolveToken(ctx, input)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	output, err = t.svc.ResolveToken(ctx, output)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	taxed := input
	if input.Native {
		taxed = output
	}
	side := tax.SideForTrade(tokenAddress(input), t.svc.WrappedNative())

	set, err := t.taxSetFor(ctx, taxed.Address)
	if err != nil && !errors.Is(err, tax.ErrNoTaxStructure) {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	rows, totalTax := tax.MergeCustomTax(set, customRate, side)

	result, err := t.svc.Calculator().Derive(ctx, quote.TradeRequest{
		Path:         t.svc.Path(input, output),
		ExactIn:      true,
		TypedAmount:  amount,
		Decimals:     input.Decimals,
		TotalTax:     totalTax,
		SlippageBips: t.cfg.SlippageBips,
	})
	if err != nil {
		if errors.Is(err, quote.ErrInsufficientLiquidity) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}

	taxesOut := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		taxesOut = append(taxesOut, map[string]string{
			"name":   row.Name,
			"amount": row.Amount.String(),
			"kind":   row.Kind.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"input_token":     input.Symbol,
		"output_token":    output.Symbol,
		"side":            sideLabel(side),
		"amount_in":       quote.FromRawUnits(result.Nominal.AmountIn, input.Decimals).String(),
		"amount_out":      quote.FromRawUnits(result.Nominal.AmountOut, output.Decimals).String(),
		"amount_out_post": quote.FromRawUnits(result.Adjusted.AmountOut, output.Decimals).String(),
		"min_received":    quote.FromRawUnits(result.MinReceived, output.Decimals).String(),
		"total_tax":       totalTax.String(),
		"slippage_bips":   t.cfg.SlippageBips,
		"taxes":           taxesOut,
	})
}

func taxRowsJSON(set *tax.Set, side tax.Side) []map[string]string {
	rows, _ := tax.MergeCustomTax(set, 0, side)
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]string{
			"name":   row.Name,
			"amount": row.Amount.String(),
			"kind":   row.Kind.String(),
		})
	}
	return out
}

func sideLabel(side tax.Side) string {
	if side == tax.SideBuy {
		return "buy"
	}
	return "sell"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
