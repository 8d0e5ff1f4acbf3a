// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics defines and registers the Prometheus metrics exported on
// GET /metrics. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contactly"

// # HTTP

// HTTPRequestsTotal counts finished requests.
// Labels:
//   - route: the chi route pattern (e.g. "/api/contacts/{contactID}")
//   - method: HTTP method
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, labelled by route, method and status.",
	},
	[]string{"route", "method", "status"},
)

// HTTPRequestDuration measures handler latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests from first byte to handler return.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// # Identity

// IdentityCacheLookups counts identity cache reads.
// Label:
//   - result: "hit", "miss" or "error"
var IdentityCacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_lookups_total",
		Help:      "Identity cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)

// # Contacts

// ContactsCreatedTotal counts contacts persisted successfully.
var ContactsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contacts_created_total",
		Help:      "Total number of contacts created.",
	},
)

// DuplicateContactsTotal counts create or update attempts rejected as duplicates.
var DuplicateContactsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contacts_duplicate_rejections_total",
		Help:      "Contact writes rejected because the owner already has the email or phone number.",
	},
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
