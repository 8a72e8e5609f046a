package providers

import (
	"encoding/json"
	"fmt"
	"net"

	"github.com/ipwhere/ipwhere/ipwherelib"
)

// Identifier for ipbase.com.
const NameIPBase = "ipbase"

// https://ipbase.com/docs
type ipbaseResponse struct {
	Data struct {
		IP       string `json:"ip"`
		Timezone struct {
			ID string `json:"id"`
		} `json:"timezone"`
		Location struct {
			Zip       string  `json:"zip"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			City      struct {
				Name string `json:"name"`
			} `json:"city"`
			Region struct {
				Name string `json:"name"`
			} `json:"region"`
			Country struct {
				Alpha2 string `json:"alpha2"`
				Name   string `json:"name"`
			} `json:"country"`
			Continent struct {
				Name string `json:"name"`
			} `json:"continent"`
		} `json:"location"`
		Connection struct {
			ASN          int64  `json:"asn"`
			Organization string `json:"organization"`
		} `json:"connection"`
	} `json:"data"`
}

type ipbaseProvider struct{}

func (i ipbaseProvider) Kind() ipwherelib.Kind {
	return ipwherelib.Kind{Name: NameIPBase}
}

func (i ipbaseProvider) Endpoint(target net.IP) string {
	if target == nil {
		return "https://api.ipbase.com/v2/info"
	}

	return "https://api.ipbase.com/v2/info?ip=" + target.String()
}

func (i ipbaseProvider) SupportsTargetLookup() bool {
	return true
}

func (i ipbaseProvider) Parse(body []byte) (ipwherelib.LookupResponse, error) {
	jsonResponse := ipbaseResponse{}
	if err := json.Unmarshal(body, &jsonResponse); err != nil {
		return ipwherelib.LookupResponse{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	data := jsonResponse.Data

	response := ipwherelib.NewLookupResponse(data.IP, i.Kind())
	response.Continent = data.Location.Continent.Name
	response.Country = data.Location.Country.Name
	response.CountryCode = data.Location.Country.Alpha2
	response.Region = data.Location.Region.Name
	response.PostalCode = data.Location.Zip
	response.City = data.Location.City.Name
	response.Latitude = data.Location.Latitude
	response.Longitude = data.Location.Longitude
	response.TimeZone = data.Timezone.ID
	response.ASNOrg = data.Connection.Organization

	if data.Connection.ASN != 0 {
		response.ASN = fmt.Sprintf("%d", data.Connection.ASN)
	}

	return response, nil
}

func NewIPBase() ipwherelib.Provider {
	return ipbaseProvider{}
}
