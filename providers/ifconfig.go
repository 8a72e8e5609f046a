package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ifconfig.co.
const NameIfconfig = "ifconfig"

// https://github.com/mpolden/echoip
type ifconfigResponse struct {
	IP         string  `json:"ip"`
	Country    string  `json:"country"`
	CountryISO string  `json:"country_iso"`
	RegionName string  `json:"region_name"`
	ZipCode    string  `json:"zip_code"`
	City       string  `json:"city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TimeZone   string  `json:"time_zone"`
	ASN        string  `json:"asn"`
	ASNOrg     string  `json:"asn_org"`
	Hostname   string  `json:"hostname"`
}

type ifconfigProvider struct{}

func (i ifconfigProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIfconfig}
}

func (i ifconfigProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://ifconfig.co/json"
	}

	return "https://ifconfig.co/json?ip=" + target.String()
}

func (i ifconfigProvider) SupportsTargetLookup() bool {
	return true
}

func (i ifconfigProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ifconfigResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.Country = jsonResponse.Country
	response.CountryCode = jsonResponse.CountryISO
	response.Region = jsonResponse.RegionName
	response.PostalCode = jsonResponse.ZipCode
	response.City = jsonResponse.City
	response.Latitude = jsonResponse.Latitude
	response.Longitude = jsonResponse.Longitude
	response.TimeZone = jsonResponse.TimeZone
	response.ASN = jsonResponse.ASN
	response.ASNOrg = jsonResponse.ASNOrg
	response.Hostname = jsonResponse.Hostname

	return response, nil
}

func NewIfconfig() ipwherelib.Provider {
	return ifconfigProvider{}
}
