package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for abstractapi.com.
const NameAbstractAPI = "abstract"

// https://docs.abstractapi.com/ip-geolocation
type abstractAPIResponse struct {
	IPAddress   string  `json:"ip_address"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	PostalCode  string  `json:"postal_code"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Continent   string  `json:"continent"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	Security    struct {
		IsVPN bool `json:"is_vpn"`
	} `json:"security"`
	Timezone struct {
		Name string `json:"name"`
	} `json:"timezone"`
	Connection struct {
		AutonomousSystemNumber       int64  `json:"autonomous_system_number"`
		AutonomousSystemOrganization string `json:"autonomous_system_organization"`
		ISPName                      string `json:"isp_name"`
	} `json:"connection"`
}

type abstractAPIProvider struct {
	key string
}

func (a abstractAPIProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameAbstractAPI, Key: a.key}
}

func (a abstractAPIProvider) Endpoint(target net.IP) string {
	values := url.Values{}
	values.Set("api_key", a.key)

	if target != nil {
		values.Set("ip_address", target.String())
	}

	return "https://ipgeolocation.abstractapi.com/v1/?" + values.Encode()
}

func (a abstractAPIProvider) SupportsTargetLookup() bool {
	return true
}

func (a abstractAPIProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := abstractAPIResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IPAddress, a.Kind())
	response.Continent = jsonResponse.Continent
	response.Country = jsonResponse.Country
	response.CountryCode = jsonResponse.CountryCode
	response.Region = jsonResponse.Region
	response.PostalCode = jsonResponse.PostalCode
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.Timezone.Name
	response.IsProxy = jsonResponse.Security.IsVPN

	if jsonResponse.Connection.AutonomousSystemNumber != 0 {
		response.ASN = strconv.FormatInt(jsonResponse.Connection.AutonomousSystemNumber, 10)
	}

	if jsonResponse.Connection.AutonomousSystemOrganization != "" {
		response.ASNOrg = jsonResponse.Connection.AutonomousSystemOrganization
	} else {
		response.ASNOrg = jsonResponse.Connection.ISPName
	}

	return response, nil
}

// NewAbstractAPI builds an abstractapi.com provider. The key is
// required by the upstream service for any request.
func NewAbstractAPI(key string) ipwherelib.Provider {
	return abstractAPIProvider{
		key: key,
	}
}
