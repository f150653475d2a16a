package model

// ConnectResponse represents response for POST /wallet/connect
type ConnectResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

// NetworkRequest represents request for POST /network
type NetworkRequest struct {
	Mainnet bool `json:"mainnet"`
}

// NetworkResponse represents response for GET|POST /network
type NetworkResponse struct {
	Name       string `json:"name"`
	Mainnet    bool   `json:"mainnet"`
	Passphrase string `json:"passphrase"`
	HorizonURL string `json:"horizonUrl"`
	RPCURL     string `json:"rpcUrl"`
	Transport  string `json:"transport"`
	Healthy    *bool  `json:"healthy,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// PriceResponse represents response for GET /price
type PriceResponse struct {
	USD       string `json:"usd"`
	Change24h string `json:"change24h"`
}
