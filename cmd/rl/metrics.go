package main

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/timpalpant/go-rl"
)

var (
	metricEpisodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rl",
			Name:      "episodes_total",
			Help:      "Number of completed learning episodes",
		},
		[]string{"algorithm", "env"},
	)

	metricTruncated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rl",
			Name:      "truncated_episodes_total",
			Help:      "Number of episodes cut off at --max-steps",
		},
		[]string{"algorithm", "env"},
	)

	metricSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rl",
			Name:      "steps_total",
			Help:      "Number of environment transitions",
		},
		[]string{"algorithm", "env"},
	)

	metricEpisodeReward = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rl",
			Name:      "episode_reward",
			Help:      "Undiscounted reward per episode",
			Buckets:   prometheus.LinearBuckets(-50, 5, 21),
		},
		[]string{"algorithm", "env"},
	)

	metricTableSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rl",
			Name:      "table_keys",
			Help:      "Number of keys in the value table of the most recent trial",
		},
		[]string{"algorithm", "env"},
	)

	metricSweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rl",
			Name:      "dp_sweeps_total",
			Help:      "Number of dynamic programming sweeps or improvement rounds",
		},
		[]string{"method", "env"},
	)

	metricBanditReward = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rl",
			Name:      "bandit_mean_reward",
			Help:      "Mean reward per step of a bandit strategy",
		},
		[]string{"strategy"},
	)
)

func recordEpisode(algorithm, env string, stats rl.EpisodeStats) {
	metricEpisodes.WithLabelValues(algorithm, env).Inc()
	metricSteps.WithLabelValues(algorithm, env).Add(float64(stats.Steps))
	metricEpisodeReward.WithLabelValues(algorithm, env).Observe(stats.Reward)
	if stats.Truncated {
		metricTruncated.WithLabelValues(algorithm, env).Inc()
	}
}

// serveMetrics exposes the default registry on addr in the background.
func serveMetrics(addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		glog.Infof("Serving metrics at http://%s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			glog.Errorf("Metrics server: %v", err)
		}
	}()
}
