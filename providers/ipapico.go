package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipapi.co.
const NameIPAPICo = "ipapico"

// https://ipapi.co/api/
type ipapicoResponse struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Postal      string  `json:"postal"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	ASN         string  `json:"asn"`
	Org         string  `json:"org"`
}

type ipapicoProvider struct{}

func (i ipapicoProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPAPICo}
}

func (i ipapicoProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://ipapi.co/json/"
	}

	return "https://ipapi.co/" + target.String() + "/json/"
}

func (i ipapicoProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipapicoProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipapicoResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Country = jsonResponse.CountryName
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.Region
	response.PostalCode = jsonResponse.Postal
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.Timezone
	response.ASN = jsonResponse.ASN
	response.ASNOrg = jsonResponse.Org

	return response, nil
}

func NewIPAPICo() ipwherelib.Provider {
	return ipapicoProvider{}
}
