// Package tenant resolves which logical storage partition an order belongs
// to, based on the host identity of the inbound request. Local and
// preview-deployment traffic is routed to a throwaway table so manual
// testing never pollutes live order data.
package tenant

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Table names for the two storage partitions.
const (
	TableOrders     = "orders"
	TableTestOrders = "test_orders"
)

// localHosts are hostnames that always route to the non-production partition.
var localHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
}

// previewSuffixes are hosting-platform suffixes for preview deployments.
var previewSuffixes = []string{
	".vercel.app",
	".netlify.app",
}

// ResolveTable classifies host and returns the table name the order should
// be written to. The hostname is normalized first: an optional port is
// stripped and the remainder lower-cased.
//
// An empty host defaults to the production table. This is deliberately
// fail-open: a misconfigured caller writes into live data rather than
// dropping orders, and the condition is logged so it can be noticed.
func ResolveTable(host string) string {
	h := normalizeHost(host)
	if h == "" {
		log.Warn().Msg("no hostname on request; defaulting to production orders table")
		return TableOrders
	}
	if _, ok := localHosts[h]; ok {
		return TableTestOrders
	}
	for _, suffix := range previewSuffixes {
		if strings.HasSuffix(h, suffix) {
			return TableTestOrders
		}
	}
	return TableOrders
}

// normalizeHost strips a trailing :port and lower-cases the hostname.
// Bracketed IPv6 literals keep their brackets' contents intact.
func normalizeHost(host string) string {
	h := strings.TrimSpace(strings.ToLower(host))
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "[") {
		// [::1]:8080 -> ::1
		if end := strings.Index(h, "]"); end > 0 {
			return h[1:end]
		}
		return h
	}
	if i := strings.LastIndex(h, ":"); i >= 0 && !strings.Contains(h[:i], ":") {
		h = h[:i]
	}
	return h
}
