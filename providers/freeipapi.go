package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for freeipapi.com.
const NameFreeIPAPI = "freeipapi"

// https://docs.freeipapi.com
type freeIPAPIResponse struct {
	IPAddress   string  `json:"ipAddress"`
	Continent   string  `json:"continent"`
	CountryName string  `json:"countryName"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	ZipCode     string  `json:"zipCode"`
	CityName    string  `json:"cityName"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	TimeZone    string  `json:"timeZone"`
	IsProxy     bool    `json:"isProxy"`
}

type freeIPAPIProvider struct{}

func (f freeIPAPIProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameFreeIPAPI}
}

func (f freeIPAPIProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://freeipapi.com/api/json"
	}

	return "https://freeipapi.com/api/json/" + target.String()
}

func (f freeIPAPIProvider) SupportsTargetLookup() bool {
	return true
}

func (f freeIPAPIProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := freeIPAPIResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IPAddress, f.Kind())
	response.Continent = jsonResponse.Continent
	response.Country = jsonResponse.CountryName
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.RegionName
	response.PostalCode = jsonResponse.ZipCode
	response.City = jsonResponse.CityName
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.TimeZone
	response.IsProxy = jsonResponse.IsProxy

	return response, nil
}

func NewFreeIPAPI() ipwherelib.Provider {
	return freeIPAPIProvider{}
}
