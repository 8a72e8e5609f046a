package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipgeolocation.io.
const NameIPGeolocation = "ipgeolocation"

// https://ipgeolocation.io/documentation/ip-geolocation-api.html
// Latitude and longitude arrive as strings here.
type ipgeolocationResponse struct {
	IP            string `json:"ip"`
	ContinentName string `json:"continent_name"`
	CountryName   string `json:"country_name"`
	CountryCode2  string `json:"country_code2"`
	StateProv     string `json:"state_prov"`
	Zipcode       string `json:"zipcode"`
	City          string `json:"city"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
	ISP           string `json:"isp"`
	Organization  string `json:"organization"`
	ASN           string `json:"asn"`
	TimeZone      struct {
		Name string `json:"name"`
	} `json:"time_zone"`
}

type ipgeolocationProvider struct {
	key string
}

func (i ipgeolocationProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPGeolocation, Key: i.key}
}

func (i ipgeolocationProvider) Endpoint(target net.IP) string {
	values := url.Values{}
	values.Set("apiKey", i.key)

	if target != nil {
		values.Set("ip", target.String())
	}

	return "https://api.ipgeolocation.io/ipgeo?" + values.Encode()
}

func (i ipgeolocationProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipgeolocationProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipgeolocationResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Continent = jsonResponse.ContinentName
	response.Country = jsonResponse.CountryName
	response.CountryCode = jsonResponse.CountryCode2
	response.Region = jsonResponse.StateProv
	response.PostalCode = jsonResponse.Zipcode
	response.City = jsonResponse.City
	response.TimeZone = jsonResponse.TimeZone.Name
	response.ASN = jsonResponse.ASN

	if jsonResponse.Organization != "" {
		response.ASNOrg = jsonResponse.Organization
	} else {
		response.ASNOrg = jsonResponse.ISP
	}

	if lat, err := strconv.ParseFloat(jsonResponse.Latitude, 64); err == nil {
		response.Latitude = lat
	}

	if lon, err := strconv.ParseFloat(jsonResponse.Longitude, 64); err == nil {
		response.Longitude = lon
	}

	return response, nil
}

// NewIPGeolocation builds an ipgeolocation.io provider. The key is
// required by the upstream service for any request.
func NewIPGeolocation(key string) ipwherelib.Provider {
	return ipgeolocationProvider{
		key: key,
	}
}
