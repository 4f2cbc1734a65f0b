package domain

import "errors"

// Sentinel errors shared across adapters. Per-article errors are recovered at
// the batch boundary; ErrConfig aborts the whole run.
var (
	// ErrNotFound means the CMS reported no article for the identifier.
	ErrNotFound = errors.New("article not found")

	// ErrGateway covers 5xx responses from the content API.
	ErrGateway = errors.New("upstream gateway error")

	// ErrConnectivity covers DNS and connection-level failures.
	ErrConnectivity = errors.New("connectivity failure")

	// ErrAPI covers any other non-2xx content API response.
	ErrAPI = errors.New("unexpected api response")

	// ErrRateLimit is returned when the generative API throttles (429).
	// The evaluation client never retries on its own.
	ErrRateLimit = errors.New("generative api rate limited")

	// ErrBadRequest is a non-retryable generative API rejection (400).
	ErrBadRequest = errors.New("generative api rejected request")

	// ErrParse means the model output could not be recovered into valid JSON.
	ErrParse = errors.New("model response not parseable")

	// ErrValidation means a required score field was missing or null.
	ErrValidation = errors.New("evaluation missing required fields")

	// ErrEvaluation wraps any evaluation failure (transport, parse, validation).
	ErrEvaluation = errors.New("evaluation failed")

	// ErrConfig is fatal to the run and reported before any article is processed.
	ErrConfig = errors.New("configuration error")
)
