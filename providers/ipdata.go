package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipdata.co.
const NameIPData = "ipdata"

// https://docs.ipdata.co/docs
type ipdataResponse struct {
	IP            string  `json:"ip"`
	City          string  `json:"city"`
	Region        string  `json:"region"`
	CountryName   string  `json:"country_name"`
	CountryCode   string  `json:"country_code"`
	ContinentName string  `json:"continent_name"`
	Longitude     float64 `json:"longitude"`
	Latitude      float64 `json:"latitude"`
	Postal        string  `json:"postal"`
	ASN           struct {
		ASN  string `json:"asn"`
		Name string `json:"name"`
	} `json:"asn"`
	TimeZone struct {
		Name string `json:"name"`
	} `json:"time_zone"`
	Threat struct {
		IsProxy bool `json:"is_proxy"`
	} `json:"threat"`
}

type ipdataProvider struct {
	key string
}

func (i ipdataProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPData, Key: i.key}
}

func (i ipdataProvider) Endpoint(target net.IP) string {
	endpoint := "https://api.ipdata.co/"
	if target != nil {
		endpoint += target.String()
	}

	return endpoint + "?" + url.Values{"api-key": {i.key}}.Encode()
}

func (i ipdataProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipdataProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipdataResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Continent = jsonResponse.ContinentName
	response.Country = jsonResponse.CountryName
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.Region
	response.PostalCode = jsonResponse.Postal
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.TimeZone.Name
	response.ASN = jsonResponse.ASN.ASN
	response.ASNOrg = jsonResponse.ASN.Name
	response.IsProxy = jsonResponse.Threat.IsProxy

	return response, nil
}

// NewIPData builds an ipdata.co provider. The key is required by the
// upstream service for any request.
func NewIPData(key string) ipwherelib.Provider {
	return ipdataProvider{
		key: key,
	}
}
