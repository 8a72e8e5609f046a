package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for mullvad.net.
const NameMullvad = "mullvad"

// https://am.i.mullvad.net/
type mullvadResponse struct {
	IP            string  `json:"ip"`
	Country       string  `json:"country"`
	City          string  `json:"city"`
	Longitude     float64 `json:"longitude"`
	Latitude      float64 `json:"latitude"`
	MullvadExitIP bool    `json:"mullvad_exit_ip"`
	Organization  string  `json:"organization"`
}

type mullvadProvider struct{}

func (m mullvadProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameMullvad}
}

func (m mullvadProvider) Endpoint(net.IP) string {
	return "https://am.i.mullvad.net/json"
}

func (m mullvadProvider) SupportsTargetLookup() bool {
	return false
}

func (m mullvadProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := mullvadResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, m.Kind())
	response.Country = jsonResponse.Country
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.ASNOrg = jsonResponse.Organization
	response.IsProxy = jsonResponse.MullvadExitIP

	return response, nil
}

func NewMullvad() ipwherelib.Provider {
	return mullvadProvider{}
}
