package main

import (
	"context"

	"github.com/alfredjeanlab/hrms/internal/listctl"
	"github.com/alfredjeanlab/hrms/internal/model"
)

// listSession is a running list controller with its records already
// rendered to table rows, so browse and watch need not know the record type.
type listSession interface {
	Start(ctx context.Context)
	SetFilter(key, value string)
	SetPage(n int)
	NextPage() bool
	PrevPage() bool
	Clear()
	Refresh()
	Updates() <-chan struct{}
	Close()
	Snapshot() listSnapshot
}

// listSnapshot is listctl.State with the items rendered.
type listSnapshot struct {
	Filters      model.Filters
	View         listView
	Status       listctl.Status
	ErrorMessage string
	Loaded       bool
}

type controllerSession[T any] struct {
	*listctl.Controller[T]
	def *resourceDef[T]
}

func (s *controllerSession[T]) Snapshot() listSnapshot {
	st := s.State()
	items := st.Items
	if items == nil {
		items = []T{}
	}
	return listSnapshot{
		Filters: st.Filters,
		View: listView{
			Resource:   s.def.name,
			Columns:    s.def.columns,
			Rows:       s.def.rows(items),
			Pagination: st.Pagination,
			Records:    items,
		},
		Status:       st.Status,
		ErrorMessage: st.ErrorMessage,
		Loaded:       st.Loaded,
	}
}
