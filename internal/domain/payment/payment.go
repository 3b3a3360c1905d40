package payment

// Request is the outbound payment request handed to a gateway. Field
// names follow the gateway wire convention (camelCase JSON). The
// merchant id is injected from the tenant's configuration, never set by
// the caller.
type Request struct {
	Channel         string  `json:"channel,omitempty"`
	Store           string  `json:"store"`
	CardNumber      string  `json:"cardNumber,omitempty"`
	Expiration      string  `json:"expiration,omitempty"`
	CVC             string  `json:"cvc,omitempty"`
	PosInputMode    string  `json:"posInputMode,omitempty"`
	TrxType         string  `json:"trxType,omitempty"`
	Amount          float64 `json:"amount"`
	ITBIS           float64 `json:"itbis,omitempty"`
	CurrencyPosCode string  `json:"currencyPosCode,omitempty"`
	OrderNumber     string  `json:"orderNumber"`
	CustomOrderID   string  `json:"customOrderId,omitempty"`
	DataVaultToken  string  `json:"dataVaultToken,omitempty"`
	SaveToDataVault string  `json:"saveToDataVault,omitempty"`
}

// GatewayResponse is the normalized result of a gateway call. Raw keeps
// every field the gateway returned, untouched.
type GatewayResponse struct {
	ResponseCode    string                 `json:"responseCode"`
	ResponseMessage string                 `json:"responseMessage"`
	Raw             map[string]interface{} `json:"raw,omitempty"`
}

// Approved reports whether the gateway approved the transaction.
func (r *GatewayResponse) Approved() bool {
	return r.ResponseCode == "00"
}

// StatusUnknown is the documented placeholder returned by status
// queries until a gateway status endpoint is integrated. It is a
// deliberate sentinel, not an error.
const StatusUnknown = "UNKNOWN"
