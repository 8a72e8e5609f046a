package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for iplocate.io.
const NameIPLocateIo = "iplocateio"

// https://iplocate.io/docs
type iplocateioResponse struct {
	IP          string  `json:"ip"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	City        string  `json:"city"`
	Continent   string  `json:"continent"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	TimeZone    string  `json:"time_zone"`
	PostalCode  string  `json:"postal_code"`
	Subdivision string  `json:"subdivision"`
	Org         string  `json:"org"`
	ASN         string  `json:"asn"`
	Threat      struct {
		IsProxy bool `json:"is_proxy"`
	} `json:"threat"`
}

type iplocateioProvider struct{}

func (i iplocateioProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPLocateIo}
}

func (i iplocateioProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://iplocate.io/api/lookup/"
	}

	return "https://iplocate.io/api/lookup/" + target.String()
}

func (i iplocateioProvider) SupportsTargetLookup() bool {
	return true
}

func (i iplocateioProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := iplocateioResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Continent = jsonResponse.Continent
	response.Country = jsonResponse.Country
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.Subdivision
	response.PostalCode = jsonResponse.PostalCode
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.TimeZone
	response.ASN = jsonResponse.ASN
	response.ASNOrg = jsonResponse.Org
	response.IsProxy = jsonResponse.Threat.IsProxy

	return response, nil
}

func NewIPLocateIo() ipwherelib.Provider {
	return iplocateioProvider{}
}
