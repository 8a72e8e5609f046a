package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipleak.net.
const NameIPLeak = "ipleak"

// https://ipleak.net/
type ipleakResponse struct {
	IP            string  `json:"ip"`
	CityName      string  `json:"city_name"`
	RegionName    string  `json:"region_name"`
	CountryName   string  `json:"country_name"`
	CountryCode   string  `json:"country_code"`
	ContinentName string  `json:"continent_name"`
	PostalCode    string  `json:"postal_code"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	TimeZone      string  `json:"time_zone"`
	ISPName       string  `json:"isp_name"`
	ASNumber      int64   `json:"as_number"`
	Reverse       string  `json:"reverse"`
}

type ipleakProvider struct{}

func (i ipleakProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPLeak}
}

func (i ipleakProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://ipleak.net/json/"
	}

	return "https://ipleak.net/json/" + target.String()
}

func (i ipleakProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipleakProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipleakResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Continent = jsonResponse.ContinentName
	response.Country = jsonResponse.CountryName
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.RegionName
	response.PostalCode = jsonResponse.PostalCode
	response.City = jsonResponse.CityName
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.TimeZone
	response.ASNOrg = jsonResponse.ISPName
	response.Hostname = jsonResponse.Reverse

	if jsonResponse.ASNumber != 0 {
		response.ASN = strconv.FormatInt(jsonResponse.ASNumber, 10)
	}

	return response, nil
}

func NewIPLeak() ipwherelib.Provider {
	return ipleakProvider{}
}
