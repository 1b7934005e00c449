// Package metrics instruments a terms.Storage with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"glossary-manager/internal/model"
	"glossary-manager/internal/terms"
)

const resultOK = "ok"

// Collectors holds the metrics recorded for storage operations.
type Collectors struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossary_term_operations_total",
			Help: "Term storage operations by operation and result kind.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "glossary_term_operation_duration_seconds",
			Help:    "Time spent in term storage operations, including file I/O.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
	}

	for _, col := range []prometheus.Collector{c.operations, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collectors) observe(op string, start time.Time, err error) {
	c.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := resultOK
	if err != nil {
		result = terms.Kind(err)
	}
	c.operations.WithLabelValues(op, result).Inc()
}

// instrumented decorates a terms.Storage, recording every call.
type instrumented struct {
	next terms.Storage
	c    *Collectors
}

// Instrument returns a terms.Storage that records metrics for each call to next.
func Instrument(next terms.Storage, c *Collectors) terms.Storage {
	return &instrumented{next: next, c: c}
}

func (i *instrumented) LoadTerms() ([]model.Term, error) {
	start := time.Now()
	out, err := i.next.LoadTerms()
	i.c.observe("load", start, err)
	return out, err
}

func (i *instrumented) AddTerm(term model.Term) (model.Term, error) {
	start := time.Now()
	out, err := i.next.AddTerm(term)
	i.c.observe("add", start, err)
	return out, err
}

func (i *instrumented) UpdateTerm(oldTerm, newTerm model.Term) (model.Term, error) {
	start := time.Now()
	out, err := i.next.UpdateTerm(oldTerm, newTerm)
	i.c.observe("update", start, err)
	return out, err
}

func (i *instrumented) RemoveTerm(term model.Term) (model.Term, error) {
	start := time.Now()
	out, err := i.next.RemoveTerm(term)
	i.c.observe("remove", start, err)
	return out, err
}

func (i *instrumented) RecreateStorage(list []model.Term) error {
	start := time.Now()
	err := i.next.RecreateStorage(list)
	i.c.observe("recreate", start, err)
	return err
}
