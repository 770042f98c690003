package snark

import metrics "github.com/hashicorp/go-metrics"

// metricLabels are attached to every counter this package emits, the same
// tagged-metrics convention the teacher's task runner uses for per-alloc
// labels (job/task_group/alloc_id/task).
var metricLabels = []metrics.Label{
	{Name: "component", Value: "snark_task_server"},
}

func incrCounter(key string) {
	metrics.IncrCounterWithLabels([]string{"snark", key}, 1, metricLabels)
}

func setGauge(key string, val float32) {
	metrics.SetGaugeWithLabels([]string{"snark", key}, val, metricLabels)
}
