package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty or nil option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "boardfield")
				So(manager.subsystem, ShouldEqual, "analysis")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ingest metrics", func() {
			So(func() {
				RecordIngested()
				RecordRejected()
				RecordDuplicate()
			}, ShouldNotPanic)
		})

		Convey("When recording pipeline metrics", func() {
			So(func() {
				RecordBoardClassified("Dominant")
				RecordBoardClassified("Split")
				RecordBoardClassified("Wild")
				RecordBoardClassified("LOW_SAMPLE")
				RecordReferenceScope("SECTION")
				RecordReferenceScope("CLUB")
				RecordReferenceScope("LOW_SAMPLE")
				RecordSideReport()
				RecordBatchDuration(120.0)
				RecordClassifyLatency(0.5)
				RecordSidePipelineError()
			}, ShouldNotPanic)
		})

		Convey("When recording data quality metrics", func() {
			So(func() {
				RecordHandParseError()
				RecordDealIntegrityFailure()
				RecordMissingDataError()
			}, ShouldNotPanic)
		})

		Convey("When recording operational metrics", func() {
			So(func() {
				UpdateQueueSize(100)
				UpdateQueueSize(0)
				UpdateWorkerCount(8)
				UpdateTotalBoards(24)
				UpdateQueueCapacity(10000)
				UpdateWorkerActiveCount(4)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/boards", "GET", "200")
				RecordHTTPRequest("/sides", "GET", "200")
				RecordHTTPRequestDuration("/boards", "GET", "200", 5.0)
				RecordHTTPRequest("", "", "200")
			}, ShouldNotPanic)
		})

		Convey("When recording repository metrics", func() {
			So(func() {
				UpdateRepositoryShardCount(16)
				UpdateRepositoryReportsTotal(1024)
				RecordRepositoryQueryLatency(2.0)
			}, ShouldNotPanic)
		})

		Convey("When recording queue and worker metrics", func() {
			So(func() {
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordWorkerProcessingLatency(50.0)
				RecordWorkerError()
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordIngested()
						UpdateQueueSize(j)
						RecordClassifyLatency(float64(j))
						RecordHTTPRequest("/boards", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("Then it should be non-nil and gatherable", func() {
			reg := GetRegistry()
			So(reg, ShouldNotBeNil)

			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
