package storage

import (
	"fmt"
	"time"
)

// WhoisLocation is where the WHOIS answer fetched for a domain at t is kept
func WhoisLocation(domainID uint, t time.Time) string {
	return fmt.Sprintf("whois/%d-%d.txt", domainID, t.Unix())
}
