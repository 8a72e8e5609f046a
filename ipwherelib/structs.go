package ipwherelib

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Kind identifies a provider variant. Name comes from a closed set
// maintained by the providers package. Key is an optional credential
// which only key-bearing providers care about.
//
// Two kinds reference the same provider only if both name and key
// match.
type Kind struct {
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
}

func (k Kind) String() string {
	if k.Key == "" {
		return k.Name
	}

	return k.Name + " " + k.Key
}

// LookupResponse is the canonical geolocation record every provider
// reply is normalized into. IP is always set; everything else is
// optional and stays zero when the upstream service did not report it.
type LookupResponse struct {
	IP          net.IP  `json:"ip"`
	Continent   string  `json:"continent,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Region      string  `json:"region,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
	City        string  `json:"city,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	TimeZone    string  `json:"time_zone,omitempty"`

	// ASN is kept in its string form: upstream formats vary between
	// "AS15169" and a bare 15169.
	ASN      string `json:"asn,omitempty"`
	ASNOrg   string `json:"asn_org,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	IsProxy  bool   `json:"is_proxy,omitempty"`

	// Provider is the kind which produced this record.
	Provider Kind `json:"provider"`
}

func (l LookupResponse) String() string {
	builder := &strings.Builder{}

	fmt.Fprintf(builder, "IP: %s\n", l.IP)

	writeIfSet(builder, "Continent", l.Continent)

	if l.Country != "" && l.CountryCode != "" {
		fmt.Fprintf(builder, "Country: %s (%s)\n", l.Country, l.CountryCode)
	} else {
		writeIfSet(builder, "Country", l.Country)
		writeIfSet(builder, "Country code", l.CountryCode)
	}

	writeIfSet(builder, "Region", l.Region)
	writeIfSet(builder, "Postal code", l.PostalCode)
	writeIfSet(builder, "City", l.City)

	if l.Latitude != 0 || l.Longitude != 0 {
		fmt.Fprintf(builder, "Coordinates: %s, %s\n",
			strconv.FormatFloat(l.Latitude, 'f', -1, 64),
			strconv.FormatFloat(l.Longitude, 'f', -1, 64))
	}

	writeIfSet(builder, "Time zone", l.TimeZone)

	if l.ASNOrg != "" && l.ASN != "" {
		fmt.Fprintf(builder, "Organization: %s (%s)\n", l.ASNOrg, l.ASN)
	} else {
		writeIfSet(builder, "Organization", l.ASNOrg)
		writeIfSet(builder, "ASN", l.ASN)
	}

	writeIfSet(builder, "Hostname", l.Hostname)

	if l.IsProxy {
		builder.WriteString("Proxy: true\n")
	}

	fmt.Fprintf(builder, "Provider: %s", l.Provider)

	return builder.String()
}

func writeIfSet(builder *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(builder, "%s: %s\n", label, value)
	}
}

// NewLookupResponse starts a canonical record for a raw address as the
// provider reported it. An address which does not parse degrades to the
// unspecified IPv4 address: a provider which answered at all is still
// worth a record.
func NewLookupResponse(rawIP string, kind Kind) LookupResponse {
	ip := net.ParseIP(strings.TrimSpace(rawIP))
	if ip == nil {
		ip = net.IPv4zero
	}

	return LookupResponse{
		IP:       ip,
		Provider: kind,
	}
}
