package netutil

import (
	"fmt"
	"net"
)

// ParseCIDRs parses the admin allowlist. Unlike a best-effort parse, any
// invalid entry is an error so a typo cannot silently lock out or open up
// the admin endpoints.
func ParseCIDRs(cidrs []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, s := range cidrs {
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("admin allowlist: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Contains reports whether ip falls inside any of nets.
func Contains(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
