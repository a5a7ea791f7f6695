package scene

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const sourceLabel = "source"

var (
	sceneBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octreeview_scene_builds_total",
		Help: "The number of scenes built.",
	}, []string{
		sourceLabel,
	})

	sceneBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "octreeview_scene_build_seconds",
		Help: "The time to build an index and its cube buffer.",
	}, []string{
		sourceLabel,
	})

	sceneCubes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "octreeview_scene_cubes",
		Help: "The number of region cubes in the current scene.",
	})

	probeQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "octreeview_probe_queries_total",
		Help: "The number of probe sphere queries answered.",
	})
)

func instrumentBuild(source string, start time.Time) {
	labels := prometheus.Labels{sourceLabel: source}
	sceneBuilds.With(labels).Inc()
	sceneBuildLatency.With(labels).Observe(time.Since(start).Seconds())
}

func instrumentCurrent(s *Snapshot) {
	sceneCubes.Set(float64(s.Index.CubeCount()))
}

func instrumentQuery() {
	probeQueries.Inc()
}
