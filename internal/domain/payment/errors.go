package payment

import (
	"errors"
	"fmt"
)

// ErrGatewayProtocol is returned when a gateway replied with a success
// status but a body that cannot be parsed into the expected shape, or
// that parses to an empty result.
var ErrGatewayProtocol = errors.New("gateway returned an unparseable or empty response")

// GatewayHTTPError is returned when the gateway replied with a
// non-success HTTP status. The body is kept verbatim for diagnostics.
type GatewayHTTPError struct {
	StatusCode int
	Body       string
}

func (e *GatewayHTTPError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d: %s", e.StatusCode, e.Body)
}
