// Package queue holds the pending writes for a single remote entity.
//
// Parameters are kept in insertion order because some endpoints interpret
// them positionally (the preferences endpoint reads "name" before "value").
// Setting a parameter that is already queued overwrites its value in place.
package queue

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Param is a single wire parameter.
type Param struct {
	Name  string
	Value string
}

// Queue is an ordered, key-unique set of pending wire parameters.
// It is not safe for concurrent use.
type Queue struct {
	params *orderedmap.OrderedMap[string, string]
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{params: orderedmap.New[string, string]()}
}

// Set queues a parameter. An existing parameter keeps its position.
func (q *Queue) Set(name, value string) {
	q.params.Set(name, value)
}

// Get returns the queued value for name.
func (q *Queue) Get(name string) (string, bool) {
	return q.params.Get(name)
}

// Len returns the number of queued parameters.
func (q *Queue) Len() int {
	return q.params.Len()
}

// Params returns an ordered snapshot of the queue.
func (q *Queue) Params() []Param {
	out := make([]Param, 0, q.params.Len())
	for pair := q.params.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Param{Name: pair.Key, Value: pair.Value})
	}
	return out
}

// Drain returns the queued parameters in order and empties the queue.
func (q *Queue) Drain() []Param {
	out := q.Params()
	q.params = orderedmap.New[string, string]()
	return out
}

// Restore re-queues parameters that were drained but never delivered.
// Restored parameters go ahead of anything queued since the drain, and a newer
// value for the same name wins.
func (q *Queue) Restore(params []Param) {
	if len(params) == 0 {
		return
	}
	merged := orderedmap.New[string, string]()
	for _, p := range params {
		merged.Set(p.Name, p.Value)
	}
	for pair := q.params.Oldest(); pair != nil; pair = pair.Next() {
		merged.Set(pair.Key, pair.Value)
	}
	q.params = merged
}
