package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipwhois.io.
const NameIPWhois = "ipwhois"

// https://ipwhois.io/documentation
type ipwhoisResponse struct {
	Success     bool    `json:"success"`
	IP          string  `json:"ip"`
	Continent   string  `json:"continent"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Postal      string  `json:"postal"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    struct {
		ID string `json:"id"`
	} `json:"timezone"`
	Connection struct {
		ASN int64  `json:"asn"`
		Org string `json:"org"`
		ISP string `json:"isp"`
	} `json:"connection"`
}

type ipwhoisProvider struct{}

func (i ipwhoisProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPWhois}
}

func (i ipwhoisProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://ipwho.is/"
	}

	return "https://ipwho.is/" + target.String()
}

func (i ipwhoisProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipwhoisProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipwhoisResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	if !jsonResponse.Success {
		return ipwherelib.LookupResponse{}, fmt.Errorf("provider reported a failure")
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Continent = jsonResponse.Continent
	response.Country = jsonResponse.Country
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.Region
	response.PostalCode = jsonResponse.Postal
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.Timezone.ID

	if jsonResponse.Connection.ASN != 0 {
		response.ASN = strconv.FormatInt(jsonResponse.Connection.ASN, 10)
	}

	if jsonResponse.Connection.Org != "" {
		response.ASNOrg = jsonResponse.Connection.Org
	} else {
		response.ASNOrg = jsonResponse.Connection.ISP
	}

	return response, nil
}

func NewIPWhois() ipwherelib.Provider {
	return ipwhoisProvider{}
}
