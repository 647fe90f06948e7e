package swap

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"pawswap/config"
	"pawswap/pkg/chain"
	"pawswap/pkg/quote"
	"pawswap/pkg/tax"
	"pawswap/pkg/tokens"
	"pawswap/pkg/types"
)

// Service assembles the chain bindings, the tax aggregator, and the quote
// calculator behind one handle shared by the CLI commands and the HTTP
// server.
type Service struct {
	cfg        *config.Config
	client     *chain.Client
	pawswap    *chain.Pawswap
	router     *chain.Router
	erc20      *chain.ERC20
	aggregator *tax.Aggregator
	calculator *quote.Calculator
	log        *zap.SugaredLogger
}

// NewService dials the configured RPC endpoint and wires the collaborators.
func NewService(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Service, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client, err := chain.Dial(ctx, cfg.RPCUrl, cfg.ChainID, chain.DefaultRequestsPerSecond)
	if err != nil {
		return nil, err
	}

	pawswap, err := chain.NewPawswap(client, common.HexToAddress(cfg.PawswapAddress))
	if err != nil {
		client.Close()
		return nil, err
	}
	router, err := chain.NewRouter(client, common.HexToAddress(cfg.RouterAddress))
	if err != nil {
		client.Close()
		return nil, err
	}
	erc20, err := chain.NewERC20(client)
	if err != nil {
		client.Close()
		return nil, err
	}
	structures, err := chain.NewTaxStructureReader(client)
	if err != nil {
		client.Close()
		return nil, err
	}

	wrappedNative := common.HexToAddress(cfg.WrappedNative)
	timeout := time.Duration(cfg.TaxFetchTimeoutMS) * time.Millisecond

	return &Service{
		cfg:        cfg,
		client:     client,
		pawswap:    pawswap,
		router:     router,
		erc20:      erc20,
		aggregator: tax.NewAggregator(pawswap, structures, wrappedNative, timeout, log),
		calculator: quote.NewCalculator(router),
		log:        log,
	}, nil
}

// Close releases the RPC connection.
func (s *Service) Close() {
	s.client.Close()
}

// WrappedNative returns the configured native-coin sentinel address.
func (s *Service) WrappedNative() common.Address {
	return common.HexToAddress(s.cfg.WrappedNative)
}

// Aggregator exposes the tax aggregator.
func (s *Service) Aggregator() *tax.Aggregator {
	return s.aggregator
}

// Calculator exposes the quote calculator.
func (s *Service) Calculator() *quote.Calculator {
	return s.calculator
}

// ResolveToken fills in symbol and decimals from the chain for tokens given
// by raw address. Built-in tokens come back as-is.
func (s *Service) ResolveToken(ctx context.Context, t tokens.Token) (tokens.Token, error) {
	if t.Native || t.Decimals != 0 {
		return t, nil
	}
	symbol, err := s.erc20.Symbol(ctx, t.Address)
	if err != nil {
		return t, fmt.Errorf("failed to read token metadata for %s: %w", t.Address.Hex(), err)
	}
	decimals, err := s.erc20.Decimals(ctx, t.Address)
	if err != nil {
		return t, fmt.Errorf("failed to read token decimals for %s: %w", t.Address.Hex(), err)
	}
	t.Symbol = symbol
	t.Decimals = decimals
	return t, nil
}

// Path builds the route for a native<->token pair, substituting the wrapped
// native address for the native side.
func (s *Service) Path(input, output tokens.Token) []common.Address {
	wrapped := s.WrappedNative()
	from := input.Address
	if input.Native {
		from = wrapped
	}
	to := output.Address
	if output.Native {
		to = wrapped
	}
	return []common.Address{from, to}
}

// FetchTaxes reads the tax set for the non-native side of a pair. Native
// addresses are a no-op and return (nil, nil).
func (s *Service) FetchTaxes(ctx context.Context, token common.Address) (*tax.Set, error) {
	return s.aggregator.FetchTaxSet(ctx, token)
}

// Execute submits the swap through the PawSwap contract, passing the custom
// tax percentage and its recipient.
func (s *Service) Execute(ctx context.Context, side tax.Side, params chain.SwapParams) (string, error) {
	key, err := s.signingKey()
	if err != nil {
		return "", err
	}
	if side == tax.SideBuy {
		return s.pawswap.ExecuteBuy(ctx, key, params)
	}
	return s.pawswap.ExecuteSell(ctx, key, params)
}

// SignerAddress derives the configured account address.
func (s *Service) SignerAddress() (common.Address, error) {
	key, err := s.signingKey()
	if err != nil {
		return common.Address{}, err
	}
	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, fmt.Errorf("failed to get public key")
	}
	return crypto.PubkeyToAddress(*publicKey), nil
}

func (s *Service) signingKey() (*ecdsa.PrivateKey, error) {
	if s.cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured. Set PAWSWAP_PRIVATE_KEY to submit swaps")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(s.cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Status looks up the on-chain status of a submitted swap.
func (s *Service) Status(ctx context.Context, txHash string) (*types.SwapStatus, error) {
	hash := common.HexToHash(txHash)

	tx, isPending, err := s.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	_ = tx

	status := &types.SwapStatus{TxHash: txHash, Pending: isPending, Status: "pending"}
	if isPending {
		return status, nil
	}

	receipt, err := s.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	status.BlockNumber = receipt.BlockNumber.Uint64()
	status.GasUsed = receipt.GasUsed
	if receipt.Status == 1 {
		status.Status = "success"
	} else {
		status.Status = "failed"
	}
	return status, nil
}

// NativeBalance returns the signer's native coin balance.
func (s *Service) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return s.client.BalanceAt(ctx, account)
}

// TokenBalance returns the signer's balance of a token.
func (s *Service) TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return s.erc20.BalanceOf(ctx, token, account)
}
