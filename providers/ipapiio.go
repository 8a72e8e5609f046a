package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ip-api.io.
const NameIPAPIIo = "ipapiio"

// https://ip-api.io/
type ipapiioResponse struct {
	IP                string  `json:"ip"`
	CountryName       string  `json:"country_name"`
	CountryCode       string  `json:"country_code"`
	RegionName        string  `json:"region_name"`
	City              string  `json:"city"`
	ZipCode           string  `json:"zip_code"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	TimeZone          string  `json:"time_zone"`
	Organisation      string  `json:"organisation"`
	SuspiciousFactors struct {
		IsProxy bool `json:"is_proxy"`
	} `json:"suspicious_factors"`
}

type ipapiioProvider struct{}

func (i ipapiioProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPAPIIo}
}

func (i ipapiioProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://ip-api.io/json"
	}

	return "https://ip-api.io/json?ip=" + target.String()
}

func (i ipapiioProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipapiioProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipapiioResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Country = jsonResponse.CountryName
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.RegionName
	response.PostalCode = jsonResponse.ZipCode
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.TimeZone
	response.ASNOrg = jsonResponse.Organisation
	response.IsProxy = jsonResponse.SuspiciousFactors.IsProxy

	return response, nil
}

func NewIPAPIIo() ipwherelib.Provider {
	return ipapiioProvider{}
}
