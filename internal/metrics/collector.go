// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports queue operation counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/msq"
)

const namespace = "msq"

// Source is a queue that exposes operation counters.
type Source interface {
	Stats() (msq.StatsSnapshot, bool)
}

// Sizer is optionally implemented by a Source to export its current size.
type Sizer interface {
	Size() int
}

type counterSpec struct {
	name  string
	help  string
	value func(msq.StatsSnapshot) int64
}

var counterSpecs = []counterSpec{
	{"enqueues_total", "Total number of successful enqueues",
		func(s msq.StatsSnapshot) int64 { return s.Enqueues }},
	{"dequeues_total", "Total number of polls that removed an element",
		func(s msq.StatsSnapshot) int64 { return s.Dequeues }},
	{"empty_polls_total", "Total number of polls that observed an empty queue",
		func(s msq.StatsSnapshot) int64 { return s.EmptyPolls }},
	{"next_cas_lost_total", "Total number of enqueue link CAS races lost",
		func(s msq.StatsSnapshot) int64 { return s.NextCASLost }},
	{"item_cas_lost_total", "Total number of item CAS races lost",
		func(s msq.StatsSnapshot) int64 { return s.ItemCASLost }},
	{"restarts_total", "Total number of traversals restarted at a detached node",
		func(s msq.StatsSnapshot) int64 { return s.Restarts }},
	{"tail_hops_total", "Total number of tail hint advances",
		func(s msq.StatsSnapshot) int64 { return s.TailHops }},
	{"head_advances_total", "Total number of head advances",
		func(s msq.StatsSnapshot) int64 { return s.HeadAdvances }},
	{"head_hop_stores_total", "Total number of consumed-prefix skips written by consumers",
		func(s msq.StatsSnapshot) int64 { return s.HeadHopStores }},
}

// Collector reads a queue's counters at scrape time.
//
// Every sample carries the constant label queue=<name>, so collectors for
// several queues can share one registry.
type Collector struct {
	src      Source
	counters []*prometheus.Desc // parallel to counterSpecs
	size     *prometheus.Desc
}

// NewCollector returns a collector labelled queue=name.
// A source that is not instrumented yields no counter samples.
func NewCollector(name string, src Source) *Collector {
	labels := prometheus.Labels{"queue": name}
	c := &Collector{src: src, counters: make([]*prometheus.Desc, len(counterSpecs))}
	for i, cs := range counterSpecs {
		c.counters[i] = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", cs.name), cs.help, nil, labels)
	}
	c.size = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "size"),
		"Best-effort number of live elements", nil, labels)
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.counters {
		ch <- d
	}
	if _, ok := c.src.(Sizer); ok {
		ch <- c.size
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if snap, ok := c.src.Stats(); ok {
		for i, cs := range counterSpecs {
			ch <- prometheus.MustNewConstMetric(c.counters[i], prometheus.CounterValue, float64(cs.value(snap)))
		}
	}
	if s, ok := c.src.(Sizer); ok {
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size()))
	}
}
