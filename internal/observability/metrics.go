package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	portalRequestsTotal  *prometheus.CounterVec
	portalLatencySeconds *prometheus.HistogramVec
	portalErrorsTotal    *prometheus.CounterVec

	cartTogglesTotal       *prometheus.CounterVec
	printBatchesTotal      prometheus.Counter
	printedCardsTotal      prometheus.Counter
	studentsSubmittedTotal prometheus.Counter

	imageUploadsTotal         *prometheus.CounterVec
	imageUploadRejectedTotal  *prometheus.CounterVec
	imageUploadLatencySeconds prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors of the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		portalRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of admin and super-admin requests served.",
		}, []string{"method", "route", "status"})

		portalLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_latency_seconds",
			Help:    "Latency distribution for admin and super-admin requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		portalErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Total number of error responses returned by portal endpoints.",
		}, []string{"method", "route", "status"})

		cartTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "print_cart_toggles_total",
			Help: "Print cart toggles by outcome.",
		}, []string{"action"})

		printBatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "print_batches_completed_total",
			Help: "Number of completed print batches.",
		})

		printedCardsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printed_cards_total",
			Help: "Number of students marked as printed.",
		})

		studentsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "students_submitted_total",
			Help: "Number of students moved to SUBMITTED by bulk submission.",
		})

		imageUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Successful image uploads by kind.",
		}, []string{"kind"})

		imageUploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "image_upload_rejected_total",
			Help: "Rejected image uploads by reason.",
		}, []string{"reason"})

		imageUploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "image_upload_latency_seconds",
			Help:    "Time spent processing and storing an image.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		})

		prometheus.MustRegister(
			portalRequestsTotal, portalLatencySeconds, portalErrorsTotal,
			cartTogglesTotal, printBatchesTotal, printedCardsTotal, studentsSubmittedTotal,
			imageUploadsTotal, imageUploadRejectedTotal, imageUploadLatencySeconds,
		)
	})
}

// PortalRequests exposes the counter for portal requests.
func PortalRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return portalRequestsTotal
}

// PortalLatency exposes the latency histogram for portal requests.
func PortalLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return portalLatencySeconds
}

// PortalErrors exposes the counter for portal error responses.
func PortalErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return portalErrorsTotal
}

// CartToggles counts cart toggles labelled "added" or "removed".
func CartToggles() *prometheus.CounterVec {
	RegisterMetrics()
	return cartTogglesTotal
}

// PrintBatches counts completed print batches.
func PrintBatches() prometheus.Counter {
	RegisterMetrics()
	return printBatchesTotal
}

// PrintedCards counts students marked as printed.
func PrintedCards() prometheus.Counter {
	RegisterMetrics()
	return printedCardsTotal
}

// StudentsSubmitted counts students moved by bulk submission.
func StudentsSubmitted() prometheus.Counter {
	RegisterMetrics()
	return studentsSubmittedTotal
}

// ImageUploads counts stored images by kind.
func ImageUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return imageUploadsTotal
}

// ImageUploadRejected counts rejected images by reason.
func ImageUploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return imageUploadRejectedTotal
}

// ImageUploadLatency exposes the image processing histogram.
func ImageUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return imageUploadLatencySeconds
}
