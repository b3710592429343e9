// Package gateway builds the bounded structured-extraction request for one
// document and parses the service response. Its load-bearing contract is
// degrade-not-fail: a service failure produces a well-formed empty result,
// never an error that escapes to the pipeline.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
)

// Service wraps a CarbonExtractor with the degrade contract.
type Service struct {
	extractor CarbonExtractor
	logger    *slog.Logger
}

func NewService(extractor CarbonExtractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractor: extractor, logger: logger}
}

// Extract never fails. A service error of any kind (network, non-2xx,
// malformed or schema-violating payload) degrades to a zero-entry result
// carrying a warning and a manual-review suggestion.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) Result {
	res, _, err := s.extractor.ExtractCarbonData(ctx, req)
	if err != nil {
		s.logger.Error("gateway.degraded", "document_type", req.DocumentType, "error", err)
		return Degraded(string(req.DocumentType), err)
	}
	return res
}

// Degraded is the zero-entry fallback result for a failed service call.
func Degraded(documentType string, err error) Result {
	return Result{
		DocumentType:         documentType,
		ExtractionConfidence: 0.0,
		Entries:              []CarbonEntry{},
		Warnings:             []string{fmt.Sprintf("AI processing failed: %v", err)},
		Suggestions:          []string{"Manual review required"},
	}
}
