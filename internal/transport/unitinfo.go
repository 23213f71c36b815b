package transport

import (
	"regexp"
	"strings"
)

// UnitInfo is the adapter detail page served by the admin interface. The
// page is a bare HTML table of label/value rows; Fields holds every row as
// scraped, the named fields pick out the ones callers actually use.
type UnitInfo struct {
	AdapterName       string
	AppVersion        string
	ReleaseVersion    string
	MACAddress        string
	SerialID          string
	RSSI              string
	IPAddress         string
	ManufacturingDate string

	Fields map[string]string
}

// table rows look like <dt>Adaptor name</dt><dd>MAC-577IF-2E</dd>; older
// firmware uses <td> pairs instead.
var unitInfoRow = regexp.MustCompile(`<(?:dt|td)>([^<]+)</(?:dt|td)>\s*<(?:dd|td)>([^<]*)</(?:dd|td)>`)

func parseUnitInfo(body []byte) *UnitInfo {
	info := &UnitInfo{Fields: make(map[string]string)}
	for _, m := range unitInfoRow.FindAllStringSubmatch(string(body), -1) {
		label := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		info.Fields[label] = value
		switch label {
		case "Adaptor name":
			info.AdapterName = value
		case "Application version":
			info.AppVersion = value
		case "Release version":
			info.ReleaseVersion = value
		case "MAC address":
			info.MACAddress = value
		case "ID":
			info.SerialID = value
		case "RSSI":
			info.RSSI = value
		case "IP address":
			info.IPAddress = value
		case "Manufacturing date":
			info.ManufacturingDate = value
		}
	}
	return info
}
