package providers

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipinfo.io.
const NameIPInfo = "ipinfo"

// https://ipinfo.io/developers
type ipinfoResponse struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

type ipinfoProvider struct{}

func (i ipinfoProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPInfo}
}

func (i ipinfoProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://ipinfo.io/json"
	}

	return "https://ipinfo.io/" + target.String() + "/json"
}

func (i ipinfoProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipinfoProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipinfoResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	response := ipwherelib.NewLookupResponse(jsonResponse.IP, i.Kind())
	response.CountryCode = jsonResponse.Country
	response.Region = jsonResponse.Region
	response.PostalCode = jsonResponse.Postal
	response.City = jsonResponse.City
	response.TimeZone = jsonResponse.Timezone
	response.Hostname = jsonResponse.Hostname

	// loc is "latitude,longitude" in one string.
	if chunks := strings.SplitN(jsonResponse.Loc, ",", 2); len(chunks) == 2 {
		if lat, err := strconv.ParseFloat(chunks[0], 64); err == nil {
			response.Latitude = lat
		}

		if lon, err := strconv.ParseFloat(chunks[1], 64); err == nil {
			response.Longitude = lon
		}
	}

	// org is "AS14618 Amazon.com, Inc.": the AS number glued to the
	// organization name.
	if chunks := strings.SplitN(jsonResponse.Org, " ", 2); len(chunks) == 2 && strings.HasPrefix(chunks[0], "AS") {
		response.ASN = chunks[0]
		response.ASNOrg = chunks[1]
	} else {
		response.ASNOrg = jsonResponse.Org
	}

	return response, nil
}

func NewIPInfo() ipwherelib.Provider {
	return ipinfoProvider{}
}
