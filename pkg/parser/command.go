package parser

import (
	"fmt"
	"regexp"
	"strings"

	"pawswap/pkg/types"
)

// swap command grammar: <amount> <token> to <token>, where a token is a
// built-in symbol or a 0x contract address. Address case is preserved.
var commandPattern = regexp.MustCompile(`(?i)^(?:swap\s+)?(\d+\.?\d*)\s+(\S+)\s+to\s+(\S+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 100 PAWTH to BNB"
//   - "0.5 BNB to 0x5aBD80b8108f90c8525a183547D6ecc004112C22"
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	command = strings.TrimSpace(command)

	matches := commandPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 100 PAWTH to BNB')")
	}

	return &types.SwapRequest{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if strings.EqualFold(req.SourceToken, req.DestToken) {
		return fmt.Errorf("source and destination tokens must differ")
	}
	return nil
}
