package edgelike

import (
	"net"
)

// Geo represents geographic data associated with a particular IP address.
type Geo struct {
	ASName           string  `json:"as_name"`
	ASNumber         int     `json:"as_number"`
	AreaCode         int     `json:"area_code"`
	City             string  `json:"city"`
	ConnSpeed        string  `json:"conn_speed"`
	ConnType         string  `json:"conn_type"`
	Continent        string  `json:"continent"`
	CountryCode      string  `json:"country_code"`
	CountryCode3     string  `json:"country_code3"`
	CountryName      string  `json:"country_name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	MetroCode        int     `json:"metro_code"`
	PostalCode       string  `json:"postal_code"`
	ProxyDescription string  `json:"proxy_description"`
	ProxyType        string  `json:"proxy_type"`
	Region           string  `json:"region,omitempty"`
	UTCOffset        int     `json:"utc_offset"`
}

// GeoLookupFunc maps a client network address to a geo record. It is total over valid addresses;
// callers with no address to look up must not call it.
type GeoLookupFunc func(ip net.IP) Geo

// DefaultGeo returns the same fixture record for every address. It is the lookup used unless the
// embedder supplies their own via WithGeo.
func DefaultGeo(ip net.IP) Geo {
	return Geo{
		ASName:   "edgelike",
		ASNumber: 64496,

		AreaCode:     512,
		City:         "Austin",
		CountryCode:  "US",
		CountryCode3: "USA",
		CountryName:  "United States of America",
		Continent:    "NA",
		Region:       "TX",

		ConnSpeed: "satellite",
		ConnType:  "satellite",
	}
}
