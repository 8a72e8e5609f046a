package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for my-ip.io.
const NameMyIP = "myip"

// https://www.my-ip.io/api
type myIPResponse struct {
	Success bool   `json:"success"`
	IP      string `json:"ip"`
	Type    string `json:"type"`
}

type myIPProvider struct{}

func (m myIPProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameMyIP}
}

func (m myIPProvider) Endpoint(net.IP) string {
	return "https://api.my-ip.io/ip.json"
}

func (m myIPProvider) SupportsTargetLookup() bool {
	return false
}

func (m myIPProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := myIPResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	if !jsonResponse.Success {
		return ipwherelib.LookupResponse{}, fmt.Errorf("provider reported a failure")
	}

	return ipwherelib.NewLookupResponse(jsonResponse.IP, m.Kind()), nil
}

func NewMyIP() ipwherelib.Provider {
	return myIPProvider{}
}
