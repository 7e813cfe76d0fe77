package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// ParseQuery parses "word1 word2 [gap]" into a request.
// The gap, when present, must be a non-negative integer.
func ParseQuery(input string) (domain.SearchRequest, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 || len(fields) > 3 {
		return domain.SearchRequest{}, fmt.Errorf("%w: expected word1 word2 [gap]", domain.ErrInvalidArgument)
	}

	req := domain.SearchRequest{
		Word1: fields[0],
		Word2: fields[1],
	}
	if len(fields) == 3 {
		gap, err := strconv.Atoi(fields[2])
		if err != nil || gap < 0 {
			return domain.SearchRequest{}, fmt.Errorf("%w: gap %q must be a non-negative integer",
				domain.ErrInvalidArgument, fields[2])
		}
		req.MaxGap = gap
		req.HasMaxGap = true
	}
	return req, nil
}
