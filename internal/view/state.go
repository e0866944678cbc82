package view

import "pe-insights-go/internal/facet"

// State is the ephemeral per-session exploration state: the free-text search
// term plus the active drill-down filters. It has value semantics; every
// mutation returns a new State, and the consumer re-derives the view from it.
// A fresh (empty) State must be created whenever a different report is loaded
// so stale filters cannot reference labels that no longer exist.
type State struct {
	SearchTerm string    `json:"search_term"`
	Filters    facet.Set `json:"-"`
}

func NewState() State {
	return State{}
}

func (s State) SetSearchTerm(term string) State {
	s.SearchTerm = term
	return s
}

func (s State) AddFilter(key facet.Key, value string) State {
	s.Filters = s.Filters.Add(facet.Filter{Key: key, Value: value})
	return s
}

func (s State) RemoveFilter(f facet.Filter) State {
	s.Filters = s.Filters.Remove(f)
	return s
}

func (s State) ResetFilters() State {
	s.Filters = s.Filters.Reset()
	return s
}
