package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ip-api.com.
const NameIPAPICom = "ipapicom"

// https://ip-api.com/docs/api:json
type ipapicomResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Query       string  `json:"query"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
}

type ipapicomProvider struct{}

func (i ipapicomProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPAPICom}
}

func (i ipapicomProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "http://ip-api.com/json/"
	}

	return "http://ip-api.com/json/" + target.String()
}

func (i ipapicomProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipapicomProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipapicomResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	if jsonResponse.Status != "success" {
		return ipwherelib.LookupResponse{}, fmt.Errorf("provider reported a failure: %s", jsonResponse.Message)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.Query, i.Kind())
	response.Country = jsonResponse.Country
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.RegionName
	response.PostalCode = jsonResponse.Zip
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Lat
	response.Longitude = jsonResponse.Lon
	response.TimeZone = jsonResponse.Timezone

	// as is "AS15169 Google LLC".
	if chunks := strings.SplitN(jsonResponse.AS, " ", 2); len(chunks) > 0 && chunks[0] != "" {
		response.ASN = chunks[0]
	}

	if jsonResponse.Org != "" {
		response.ASNOrg = jsonResponse.Org
	} else {
		response.ASNOrg = jsonResponse.ISP
	}

	return response, nil
}

func NewIPAPICom() ipwherelib.Provider {
	return ipapicomProvider{}
}
